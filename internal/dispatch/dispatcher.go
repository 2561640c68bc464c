// Package dispatch synthesises a contract's entry CFG: the function that
// decodes calldata, matches the function selector, enforces payability,
// and routes to the correct function CFG or fallback/receive handler
// (spec.md §4.4). Grounded structurally on
// original_source/src/codegen/dispatch/substrate.rs's function_dispatch —
// length check, selector read, switch, per-case payability trap and
// decode/invoke/encode, default-case fallback/receive arbitration — ported
// from that file's Vartable/ControlFlowGraph API onto this repo's
// internal/cfg instruction set.
package dispatch

import (
	"solcore/internal/abi"
	"solcore/internal/cfg"
	"solcore/internal/diag"
	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

const dispatcherName = "$dispatch"

// Build synthesises the entry CFG for contract c's external surface under
// the given target descriptor. Selector collisions are reported on ns.Bus
// and the colliding function is skipped in the synthesised switch.
func Build(ns *namespace.Namespace, c *namespace.Contract, opts target.Options) *cfg.Function {
	b := &builder{ns: ns, contract: c, width: opts.Target.SelectorWidth(), varIndex: make(map[string]cfg.VarID)}
	b.run()
	return &cfg.Function{
		Name:   dispatcherName,
		Vars:   b.vars,
		Entry:  b.entry,
		Blocks: b.blocks,
	}
}

type builder struct {
	ns       *namespace.Namespace
	contract *namespace.Contract
	width    int

	vars     []*cfg.Var
	varIndex map[string]cfg.VarID
	blocks   []*cfg.Block
	entry    cfg.BlockID
}

func (b *builder) newBlock() cfg.BlockID {
	id := cfg.BlockID(len(b.blocks))
	b.blocks = append(b.blocks, &cfg.Block{ID: id})
	return id
}

func (b *builder) declareVar(name string, t types.Type) cfg.VarID {
	id := cfg.VarID(len(b.vars))
	b.vars = append(b.vars, &cfg.Var{ID: id, Name: name, Type: t})
	b.varIndex[name] = id
	return id
}

func (b *builder) emit(block cfg.BlockID, instr cfg.Instruction) {
	b.blocks[block].Instructions = append(b.blocks[block].Instructions, instr)
}

func (b *builder) terminate(block cfg.BlockID, t cfg.Terminator) {
	b.blocks[block].Terminator = t
}

func (b *builder) link(from, to cfg.BlockID) {
	b.blocks[to].Predecessors = append(b.blocks[to].Predecessors, from)
}

func ident(name string) *syntax.Ident { return &syntax.Ident{Name: name} }

func litUint(n uint64) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LiteralInt, Text: uintToString(n)}
}

func uintToString(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// candidate is one externally callable function with its precomputed
// selector.
type candidate struct {
	fn       *namespace.Function
	selector uint32
}

func (b *builder) externallyCallable() []candidate {
	var out []candidate
	for _, fn := range b.contract.Functions {
		if fn.Kind != syntax.KindFunction {
			continue // only plain KindFunction participates in selector dispatch
		}
		if fn.Visibility != types.Public && fn.Visibility != types.External {
			continue
		}
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		out = append(out, candidate{fn: fn, selector: abi.Selector32(fn.Name, params)})
	}
	return out
}

func (b *builder) run() {
	b.entry = b.newBlock()

	input := ident("$input")
	b.declareVar("$input", types.Qualified{Inner: types.DynamicBytes{}, Location: types.Calldata})

	lenVar := b.declareVar("$inputlen", types.Int{Bits: 32, Signed: false})
	b.emit(b.entry, &cfg.CalldataLen{Dst: lenVar})

	fallback := b.newBlock()
	startDispatch := b.newBlock()
	cond := &syntax.BinaryExpr{Op: syntax.OpGte, Left: ident("$inputlen"), Right: litUint(uint64(b.width))}
	b.link(b.entry, startDispatch)
	b.link(b.entry, fallback)
	b.terminate(b.entry, &cfg.Branch{Cond: cond, Then: startDispatch, Else: fallback})

	selVar := b.declareVar("$selector", types.FixedBytes{Width: b.width})
	b.emit(startDispatch, &cfg.ReadSelector{Dst: selVar, Width: b.width})

	candidates := b.dedupeSelectors()
	switchBlock := startDispatch
	cases := make([]cfg.SwitchCase, 0, len(candidates))
	for _, c := range candidates {
		caseBlock := b.buildCase(c, input)
		b.link(switchBlock, caseBlock)
		cases = append(cases, cfg.SwitchCase{Value: c.selector, Target: caseBlock})
	}
	b.link(switchBlock, fallback)
	b.terminate(switchBlock, &cfg.Switch{Cond: ident("$selector"), Cases: cases, Default: fallback})

	b.buildFallbackOrReceive(fallback, input)
}

// dedupeSelectors reports an overridden-selector diagnostic for any two
// functions that hash to the same value and keeps only the first.
func (b *builder) dedupeSelectors() []candidate {
	seen := make(map[uint32]*namespace.Function)
	var out []candidate
	for _, c := range b.externallyCallable() {
		if prev, ok := seen[c.selector]; ok {
			b.ns.Bus.Errorf(diag.ErrOverrideSelectorMismatch, c.fn.Pos,
				"function '"+c.fn.Name+"' collides with '"+prev.Name+"' on the same selector")
			continue
		}
		seen[c.selector] = c.fn
		out = append(out, c)
	}
	return out
}

// buildCase lowers one switch arm: the payability trap, ABI decode,
// invocation, ABI encode, and the successful return.
func (b *builder) buildCase(c candidate, input syntax.Expr) cfg.BlockID {
	block := b.newBlock()
	if c.fn.Mutability != types.Payable {
		block = b.guardAgainstEndowment(block)
	}

	paramTypes := make([]types.Type, len(c.fn.Params))
	argVars := make([]cfg.VarID, len(c.fn.Params))
	for i, p := range c.fn.Params {
		paramTypes[i] = p.Type
		argVars[i] = b.declareVar(c.fn.Name+"$arg"+uintToString(uint64(i)), p.Type)
	}
	b.emit(block, &cfg.ABIDecode{Dsts: argVars, Types: paramTypes, Offset: b.width})

	retVars := make([]cfg.VarID, len(c.fn.Returns))
	args := make([]syntax.Expr, len(argVars))
	for i, v := range argVars {
		args[i] = ident(b.vars[v].Name)
	}
	for i, r := range c.fn.Returns {
		retVars[i] = b.declareVar(c.fn.Name+"$ret"+uintToString(uint64(i)), r.Type)
	}
	b.emit(block, &cfg.Invoke{Dsts: retVars, Target: c.fn.Name, Args: args})

	outVar := b.declareVar(c.fn.Name+"$out", types.DynamicBytes{})
	retVals := make([]syntax.Expr, len(retVars))
	for i, v := range retVars {
		retVals[i] = ident(b.vars[v].Name)
	}
	b.emit(block, &cfg.ABIEncode{Dst: outVar, Values: retVals})
	b.terminate(block, &cfg.Return{Values: []syntax.Expr{ident(b.vars[outVar].Name)}})
	return block
}

// guardAgainstEndowment inserts a branch that traps when $msgvalue is
// non-zero, returning the block execution continues in on the zero-value
// path.
func (b *builder) guardAgainstEndowment(from cfg.BlockID) cfg.BlockID {
	ok := b.newBlock()
	trap := b.trapBlock("call to a non-payable function carried a non-zero value")
	cond := &syntax.BinaryExpr{Op: syntax.OpNotEq, Left: ident("$msgvalue"), Right: litUint(0)}
	b.link(from, trap)
	b.link(from, ok)
	b.terminate(from, &cfg.Branch{Cond: cond, Then: trap, Else: ok})
	return ok
}

// trapBlock builds a fresh block that records a debug message and
// terminates with Unreachable — spec.md §4.4's "a trap is a distinguished
// terminator (Unreachable after any necessary AssertFailure/Print
// instructions for debug builds)".
func (b *builder) trapBlock(message string) cfg.BlockID {
	block := b.newBlock()
	b.emit(block, &cfg.AssertFailure{Message: message})
	b.terminate(block, &cfg.Unreachable{})
	return block
}

// buildFallbackOrReceive arbitrates by endowment: non-zero value routes to
// receive (if declared), zero value routes to fallback (if declared);
// either missing case traps.
func (b *builder) buildFallbackOrReceive(block cfg.BlockID, input syntax.Expr) {
	var receiveFn, fallbackFn *namespace.Function
	for _, fn := range b.contract.Functions {
		switch fn.Kind {
		case syntax.KindReceive:
			receiveFn = fn
		case syntax.KindFallback:
			fallbackFn = fn
		}
	}

	receiveBlock := b.newBlock()
	fallbackBlock := b.newBlock()
	cond := &syntax.BinaryExpr{Op: syntax.OpNotEq, Left: ident("$msgvalue"), Right: litUint(0)}
	b.link(block, receiveBlock)
	b.link(block, fallbackBlock)
	b.terminate(block, &cfg.Branch{Cond: cond, Then: receiveBlock, Else: fallbackBlock})

	if receiveFn != nil {
		b.emit(receiveBlock, &cfg.Invoke{Target: receiveFn.Name})
		b.terminate(receiveBlock, &cfg.Return{})
	} else {
		trap := b.trapBlock("no receive function defined")
		b.link(receiveBlock, trap)
		b.terminate(receiveBlock, &cfg.Jump{Target: trap})
	}

	if fallbackFn != nil {
		args := []syntax.Expr{input}
		if len(fallbackFn.Params) == 0 {
			args = nil
		}
		b.emit(fallbackBlock, &cfg.Invoke{Target: fallbackFn.Name, Args: args})
		b.terminate(fallbackBlock, &cfg.Return{})
	} else {
		trap := b.trapBlock("no fallback function defined")
		b.link(fallbackBlock, trap)
		b.terminate(fallbackBlock, &cfg.Jump{Target: trap})
	}
}
