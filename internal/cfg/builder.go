package cfg

import (
	"strconv"

	"solcore/internal/diag"
	"solcore/internal/namespace"
	"solcore/internal/resolve"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// Builder lowers one resolved function body into a Function CFG. It owns
// the current-block cursor (spec.md §4.3: "a scoped current-block guard
// that refuses to append past a terminator") and the loop-target stack
// break/continue consult.
type Builder struct {
	ns       *namespace.Namespace
	contract *namespace.Contract
	fn       *namespace.Function
	resolver *resolve.FunctionResolver

	vars     []*Var
	varIndex map[string]VarID

	blocks  []*Block
	current BlockID

	loopStack []loopFrame

	successExits []BlockID
	failureExits []BlockID

	loadCounter int
}

type loopFrame struct {
	continueTarget BlockID
	breakTarget    BlockID
}

// Build lowers fn's resolved body. r must be the FunctionResolver already
// run over fn via resolve.ResolveFunction.
func Build(ns *namespace.Namespace, c *namespace.Contract, fn *namespace.Function, r *resolve.FunctionResolver) *Function {
	b := &Builder{ns: ns, contract: c, fn: fn, resolver: r, varIndex: make(map[string]VarID)}

	entry := b.newBlock()
	b.current = entry

	for _, p := range fn.Params {
		b.declareVar(p.Name, p.Type, true, false)
	}
	for _, rp := range fn.Returns {
		if rp.Name != "" {
			b.declareVar(rp.Name, rp.Type, false, true)
		}
	}

	if fn.Body != nil {
		b.lowerStatement(fn.Body)
	}
	b.closeFallthrough()

	f := &Function{
		Name:         fn.Name,
		Vars:         b.vars,
		Entry:        entry,
		Blocks:       b.blocks,
		SuccessExits: b.successExits,
		FailureExits: b.failureExits,
	}
	MarkReachability(f.Blocks, f.Entry)
	reachableOnly := func(ids []BlockID) []BlockID {
		var out []BlockID
		for _, id := range ids {
			if !f.Blocks[id].Unreachable {
				out = append(out, id)
			}
		}
		return out
	}
	f.SuccessExits = reachableOnly(f.SuccessExits)
	f.FailureExits = reachableOnly(f.FailureExits)
	reportUnreachableStatements(ns.Bus, f)
	return f
}

func (b *Builder) newBlock() BlockID {
	id := BlockID(len(b.blocks))
	b.blocks = append(b.blocks, &Block{ID: id})
	return id
}

func (b *Builder) declareVar(name string, t types.Type, param, ret bool) VarID {
	id := VarID(len(b.vars))
	b.vars = append(b.vars, &Var{ID: id, Name: name, Type: t, Parameter: param, Return: ret})
	b.varIndex[name] = id
	return id
}

// isOpen reports whether block id can still receive instructions.
func (b *Builder) isOpen(id BlockID) bool {
	return b.blocks[id].Terminator == nil
}

func (b *Builder) emit(instr Instruction) {
	if !b.isOpen(b.current) {
		return
	}
	b.blocks[b.current].Instructions = append(b.blocks[b.current].Instructions, instr)
}

func (b *Builder) terminate(id BlockID, t Terminator) {
	if b.blocks[id].Terminator != nil {
		return
	}
	b.blocks[id].Terminator = t
	switch t.(type) {
	case *Return:
		b.successExits = append(b.successExits, id)
	case *Revert:
		b.failureExits = append(b.failureExits, id)
	}
}

func (b *Builder) link(from, to BlockID) {
	b.blocks[to].Predecessors = append(b.blocks[to].Predecessors, from)
}

// closeFallthrough terminates the current block with an implicit return
// if control can still fall off the end of the function body.
func (b *Builder) closeFallthrough() {
	if !b.isOpen(b.current) {
		return
	}
	var values []syntax.Expr
	for _, rp := range b.fn.Returns {
		if rp.Name != "" {
			values = append(values, &syntax.Ident{Name: rp.Name})
		}
	}
	b.terminate(b.current, &Return{Values: values})
}

func (b *Builder) lowerStatement(st syntax.Statement) {
	if !b.isOpen(b.current) {
		return
	}
	if blk := b.blocks[b.current]; st != nil {
		if _, isBlock := st.(*syntax.Block); !isBlock && blk.Span == (diag.Span{}) {
			blk.Span = st.Span()
		}
	}
	switch v := st.(type) {
	case nil:
		return
	case *syntax.Block:
		for _, inner := range v.Statements {
			if !b.isOpen(b.current) {
				// Code after a return/break/continue/revert still gets a
				// block of its own: nothing links to it, so the reachability
				// pass marks it and Build reports it as unreachable.
				b.current = b.newBlock()
			}
			b.lowerStatement(inner)
		}
	case *syntax.ExprStmt:
		b.lowerExprStmt(v.Expr)
	case *syntax.VarDeclStmt:
		b.lowerVarDecl(v)
	case *syntax.ReturnStmt:
		b.lowerReturn(v)
	case *syntax.IfStmt:
		b.lowerIf(v)
	case *syntax.ForStmt:
		b.lowerFor(v)
	case *syntax.WhileStmt:
		b.lowerWhile(v)
	case *syntax.DoWhileStmt:
		b.lowerDoWhile(v)
	case *syntax.BreakStmt:
		if len(b.loopStack) > 0 {
			target := b.loopStack[len(b.loopStack)-1].breakTarget
			b.link(b.current, target)
			b.terminate(b.current, &Jump{Target: target})
		}
	case *syntax.ContinueStmt:
		if len(b.loopStack) > 0 {
			target := b.loopStack[len(b.loopStack)-1].continueTarget
			b.link(b.current, target)
			b.terminate(b.current, &Jump{Target: target})
		}
	case *syntax.EmitStmt:
		b.emit(&Emit{Event: v.Event, Args: v.Args})
	case *syntax.RevertStmt:
		b.terminate(b.current, &Revert{Error: v.Error, Args: v.Args})
	case *syntax.PlaceholderStmt:
		// No stage inlines modifiers into the wrapped function, so the
		// placeholder lowers to nothing.
	case *syntax.AssemblyStmt:
		b.emit(&Assembly{Body: v.Body})
	}
}

// materialize rewrites a bare storage-backed read (`total`, `balances[a]`,
// `p.owner`) into a temporary loaded via an explicit LoadStorage
// instruction, returning an Ident referring to that temporary. Expressions
// that aren't themselves a storage lvalue pass through unchanged; a
// storage read nested inside a larger expression (`total + 1`) is left
// for internal/lir's value-level lowering to materialize, since rewriting
// arbitrary sub-expressions in place belongs with that stage's tree walk.
func (b *Builder) materialize(e syntax.Expr) syntax.Expr {
	if e == nil {
		return nil
	}
	ref, ok := b.storageRef(e)
	if !ok {
		return e
	}
	name := "$load" + strconv.Itoa(b.loadCounter)
	b.loadCounter++
	vid := b.declareVar(name, ref.Type, false, false)
	b.emit(&LoadStorage{Dst: vid, Type: ref.Type, Slot: ref.Slot, Offset: ref.Offset, SlotExpr: ref.SlotExpr})
	return &syntax.Ident{Name: name}
}

func (b *Builder) lowerExprStmt(e syntax.Expr) {
	if assign, ok := e.(*syntax.AssignExpr); ok {
		b.lowerAssign(assign)
		return
	}
	b.emit(&EvalForEffect{Value: e})
}

func (b *Builder) lowerAssign(assign *syntax.AssignExpr) {
	rhs := b.materialize(assign.RHS)
	if ref, ok := b.storageRef(assign.LHS); ok {
		b.emit(&SetStorage{Type: ref.Type, Slot: ref.Slot, Offset: ref.Offset, SlotExpr: ref.SlotExpr, Value: rhs})
		return
	}
	if id, ok := assign.LHS.(*syntax.Ident); ok {
		if vid, ok := b.varIndex[id.Name]; ok {
			b.emit(&SetLocal{Dst: vid, Value: rhs})
			return
		}
	}
	// Anything else (tuple-destructuring assignment) is recorded for
	// its side effect; internal/lir's scalarization pass splits it.
	b.emit(&EvalForEffect{Value: assign})
}

func (b *Builder) lowerVarDecl(v *syntax.VarDeclStmt) {
	for i, name := range v.Names {
		if name == nil {
			continue
		}
		var t types.Type
		if i < len(v.Types) && v.Types[i] != nil {
			t = namespace.ResolveStandaloneTypeName(b.ns, v.Types[i])
		}
		vid := b.declareVar(name.Name, t, false, false)
		if v.Init != nil && len(v.Names) == 1 {
			b.emit(&SetLocal{Dst: vid, Value: b.materialize(v.Init)})
		}
	}
	if v.Init != nil && len(v.Names) > 1 {
		// Tuple destructuring: internal/lir scalarizes this into one
		// SetLocal per element once it can see the initializer's tuple
		// element types.
		b.emit(&EvalForEffect{Value: v.Init})
	}
}

func (b *Builder) lowerReturn(v *syntax.ReturnStmt) {
	var values []syntax.Expr
	if v.Value != nil {
		if tup, ok := v.Value.(*syntax.TupleExpr); ok {
			values = tup.Elements
		} else {
			values = []syntax.Expr{v.Value}
		}
	} else {
		for _, rp := range b.fn.Returns {
			if rp.Name != "" {
				values = append(values, &syntax.Ident{Name: rp.Name})
			}
		}
	}
	for i, val := range values {
		values[i] = b.materialize(val)
	}
	b.terminate(b.current, &Return{Values: values})
}

func (b *Builder) lowerIf(v *syntax.IfStmt) {
	thenBlock := b.newBlock()
	var elseBlock BlockID
	hasElse := v.Else != nil
	if hasElse {
		elseBlock = b.newBlock()
	}
	join := b.newBlock()

	elseTarget := join
	if hasElse {
		elseTarget = elseBlock
	}
	cond := b.materialize(v.Cond)
	b.link(b.current, thenBlock)
	b.link(b.current, elseTarget)
	b.terminate(b.current, &Branch{Cond: cond, Then: thenBlock, Else: elseTarget})

	b.current = thenBlock
	b.lowerStatement(v.Then)
	if b.isOpen(b.current) {
		b.link(b.current, join)
		b.terminate(b.current, &Jump{Target: join})
	}

	if hasElse {
		b.current = elseBlock
		b.lowerStatement(v.Else)
		if b.isOpen(b.current) {
			b.link(b.current, join)
			b.terminate(b.current, &Jump{Target: join})
		}
	}

	b.current = join
}

func (b *Builder) lowerWhile(v *syntax.WhileStmt) {
	header := b.newBlock()
	body := b.newBlock()
	exit := b.newBlock()

	b.link(b.current, header)
	b.terminate(b.current, &Jump{Target: header})

	b.current = header
	cond := b.materialize(v.Cond)
	b.link(header, body)
	b.link(header, exit)
	b.terminate(header, &Branch{Cond: cond, Then: body, Else: exit})

	b.loopStack = append(b.loopStack, loopFrame{continueTarget: header, breakTarget: exit})
	b.current = body
	b.lowerStatement(v.Body)
	if b.isOpen(b.current) {
		b.link(b.current, header)
		b.terminate(b.current, &Jump{Target: header})
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.current = exit
}

func (b *Builder) lowerDoWhile(v *syntax.DoWhileStmt) {
	body := b.newBlock()
	cond := b.newBlock()
	exit := b.newBlock()

	b.link(b.current, body)
	b.terminate(b.current, &Jump{Target: body})

	b.loopStack = append(b.loopStack, loopFrame{continueTarget: cond, breakTarget: exit})
	b.current = body
	b.lowerStatement(v.Body)
	if b.isOpen(b.current) {
		b.link(b.current, cond)
		b.terminate(b.current, &Jump{Target: cond})
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.current = cond
	condExpr := b.materialize(v.Cond)
	b.link(cond, body)
	b.link(cond, exit)
	b.terminate(cond, &Branch{Cond: condExpr, Then: body, Else: exit})

	b.current = exit
}

func (b *Builder) lowerFor(v *syntax.ForStmt) {
	if v.Init != nil {
		b.lowerStatement(v.Init)
	}
	header := b.newBlock()
	body := b.newBlock()
	post := b.newBlock()
	exit := b.newBlock()

	b.link(b.current, header)
	b.terminate(b.current, &Jump{Target: header})

	b.current = header
	if v.Cond != nil {
		condExpr := b.materialize(v.Cond)
		b.link(header, body)
		b.link(header, exit)
		b.terminate(header, &Branch{Cond: condExpr, Then: body, Else: exit})
	} else {
		b.link(header, body)
		b.terminate(header, &Jump{Target: body})
	}

	b.loopStack = append(b.loopStack, loopFrame{continueTarget: post, breakTarget: exit})
	b.current = body
	b.lowerStatement(v.Body)
	if b.isOpen(b.current) {
		b.link(b.current, post)
		b.terminate(b.current, &Jump{Target: post})
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.current = post
	if v.Post != nil {
		b.lowerStatement(v.Post)
	}
	if b.isOpen(b.current) {
		b.link(b.current, header)
		b.terminate(b.current, &Jump{Target: header})
	}

	b.current = exit
}

// MarkReachability flags every block not reachable from entry by a
// forward BFS over successors. It only annotates blocks; Build pairs it
// with reportUnreachableStatements to turn the annotation into a
// diagnostic the one time it reflects a user mistake rather than an
// optimizer rewrite. Exported so internal/optimize can re-run it after a
// pass deletes edges or merges blocks, keeping Unreachable accurate as a
// fixed point — those re-runs never report, since by then the CFG no
// longer matches the source text a span would point at.
func MarkReachability(blocks []*Block, entry BlockID) {
	seen := make(map[BlockID]bool)
	queue := []BlockID{entry}
	seen[entry] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, succ := range successorsOf(blocks[id]) {
			if !seen[succ] {
				seen[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	for _, blk := range blocks {
		if !seen[blk.ID] {
			blk.Unreachable = true
		}
	}
}

// reportUnreachableStatements emits spec.md §4.3's "unreachable statement"
// diagnostic for source code no path from entry can ever reach — a
// for(;;){} with no break followed by more statements being the canonical
// case (spec.md §8). A block qualifies when nothing at all links to it
// (not even another dead block) and a real statement was lowered into it;
// blocks chained off such a block inherit Unreachable too but are not
// reported separately, since they're the same dead run of code, not a
// second mistake.
func reportUnreachableStatements(bus *diag.Bus, f *Function) {
	for _, blk := range f.Blocks {
		if blk.ID == f.Entry || !blk.Unreachable {
			continue
		}
		if len(blk.Predecessors) > 0 {
			continue
		}
		if blk.Span == (diag.Span{}) {
			continue
		}
		bus.Errorf(diag.ErrUnreachableStatement, blk.Span, "unreachable statement")
	}
}

func successorsOf(b *Block) []BlockID {
	switch t := b.Terminator.(type) {
	case *Jump:
		return []BlockID{t.Target}
	case *Branch:
		return []BlockID{t.Then, t.Else}
	case *Switch:
		succs := make([]BlockID, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			succs = append(succs, c.Target)
		}
		return append(succs, t.Default)
	default:
		return nil
	}
}
