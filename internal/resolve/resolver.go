package resolve

import (
	"solcore/internal/builtins"
	"solcore/internal/diag"
	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// FunctionResolver holds the per-function resolution state: the type and
// conversion side-tables (spec.md §4.2's "typed statement/expression
// trees" realized as annotations over the existing syntax tree, see
// scope.go's package doc), the scope stack, and the worst mutability
// effect observed so far.
type FunctionResolver struct {
	ns       *namespace.Namespace
	contract *namespace.Contract
	fn       *namespace.Function

	exprTypes   map[syntax.Expr]types.Type
	conversions map[syntax.Expr]*Conversion

	worstEffect types.Mutability
	loopDepth   int
	// unchecked is true while resolving the body of an `unchecked { }`
	// block (spec.md §4.5 pass 1's checked/unchecked arithmetic mode);
	// stamped onto every BinaryExpr/UnaryExpr resolved under it so
	// internal/optimize's constant folding knows whether overflow traps.
	unchecked bool
}

// ExprType returns the resolved type of e, or nil if e was never resolved
// (e.g. resolution aborted earlier with a fatal diagnostic).
func (r *FunctionResolver) ExprType(e syntax.Expr) (types.Type, bool) {
	t, ok := r.exprTypes[e]
	return t, ok
}

// Conversion returns the conversion annotation attached to e, if resolving
// e required one.
func (r *FunctionResolver) Conversion(e syntax.Expr) (*Conversion, bool) {
	c, ok := r.conversions[e]
	return c, ok
}

// ResolveFunction runs the resolver over fn's body (spec.md §4.2). Results
// are reported onto ns.Bus; the returned *FunctionResolver carries the
// type/conversion annotations internal/cfg consumes while lowering.
func ResolveFunction(ns *namespace.Namespace, c *namespace.Contract, fn *namespace.Function) *FunctionResolver {
	r := &FunctionResolver{
		ns: ns, contract: c, fn: fn,
		exprTypes:   make(map[syntax.Expr]types.Type),
		conversions: make(map[syntax.Expr]*Conversion),
	}
	if fn.Builtin || fn.Body == nil {
		return r
	}

	file := newScope(nil)
	contractScope := newScope(file)
	params := newScope(contractScope)
	for _, p := range fn.Params {
		params.declare(&binding{Name: p.Name, Kind: bindParameter, Type: p.Type})
	}
	for _, rp := range fn.Returns {
		if rp.Name != "" {
			params.declare(&binding{Name: rp.Name, Kind: bindParameter, Type: rp.Type})
		}
	}

	r.resolveStatement(params, fn.Body)
	return r
}

func (r *FunctionResolver) resolveStatement(s *scope, st syntax.Statement) {
	switch v := st.(type) {
	case nil:
		return
	case *syntax.Block:
		block := newScope(s)
		prevUnchecked := r.unchecked
		if v.Unchecked {
			r.unchecked = true
		}
		for _, inner := range v.Statements {
			r.resolveStatement(block, inner)
		}
		r.unchecked = prevUnchecked
	case *syntax.ExprStmt:
		r.resolveExpr(s, v.Expr)
	case *syntax.VarDeclStmt:
		r.resolveVarDecl(s, v)
	case *syntax.ReturnStmt:
		if v.Value != nil {
			r.resolveExpr(s, v.Value)
		}
	case *syntax.IfStmt:
		r.resolveExpr(s, v.Cond)
		r.resolveStatement(s, v.Then)
		r.resolveStatement(s, v.Else)
	case *syntax.ForStmt:
		loopScope := newScope(s)
		r.resolveStatement(loopScope, v.Init)
		if v.Cond != nil {
			r.resolveExpr(loopScope, v.Cond)
		}
		r.resolveStatement(loopScope, v.Post)
		r.loopDepth++
		r.resolveStatement(loopScope, v.Body)
		r.loopDepth--
	case *syntax.WhileStmt:
		r.resolveExpr(s, v.Cond)
		r.loopDepth++
		r.resolveStatement(s, v.Body)
		r.loopDepth--
	case *syntax.DoWhileStmt:
		r.loopDepth++
		r.resolveStatement(s, v.Body)
		r.loopDepth--
		r.resolveExpr(s, v.Cond)
	case *syntax.BreakStmt, *syntax.ContinueStmt:
		if r.loopDepth == 0 {
			r.ns.Bus.Errorf(diag.ErrBreakOutsideLoop, st.Span(), "break/continue outside of a loop")
		}
	case *syntax.EmitStmt:
		for _, a := range v.Args {
			r.resolveExpr(s, a)
		}
	case *syntax.RevertStmt:
		for _, a := range v.Args {
			r.resolveExpr(s, a)
		}
	case *syntax.PlaceholderStmt, *syntax.AssemblyStmt:
		// Opaque to the semantic middle end.
	}
}

func (r *FunctionResolver) resolveVarDecl(s *scope, v *syntax.VarDeclStmt) {
	var initTypes []types.Type
	if v.Init != nil {
		t, _ := r.resolveExpr(s, v.Init)
		if tup, ok := v.Init.(*syntax.TupleExpr); ok {
			for _, el := range tup.Elements {
				if el == nil {
					initTypes = append(initTypes, nil)
					continue
				}
				et, _ := r.ExprType(el)
				initTypes = append(initTypes, et)
			}
		} else {
			initTypes = []types.Type{t}
		}
	}

	for i, name := range v.Names {
		if name == nil {
			continue
		}
		var declType types.Type
		if i < len(v.Types) && v.Types[i] != nil {
			declType = r.resolveTypeNameLocal(v.Types[i])
		} else if i < len(initTypes) {
			declType = initTypes[i]
		}
		if declType != nil && v.Init != nil && len(v.Names) == 1 && i < len(initTypes) {
			_, sawExplicit := isExplicitCast(v.Init)
			if c := r.reconcile(v.Init.Span(), v.Init, initTypes[i], declType, sawExplicit, true); c != nil {
				r.conversions[v.Init] = c
			}
		}
		if shadowed := s.declare(&binding{Name: name.Name, Kind: bindLocal, Type: declType}); shadowed != nil {
			r.ns.Bus.Warnf(diag.WarnShadowedParameter, name.Span(),
				"local variable '"+name.Name+"' shadows parameter '"+shadowed.Name+"'")
		}
	}
}

// resolveTypeNameLocal resolves a local variable's declared type against
// the namespace's already-built global symbol table (no new type
// declarations occur inside a function body).
func (r *FunctionResolver) resolveTypeNameLocal(tn syntax.TypeName) types.Type {
	return namespace.ResolveStandaloneTypeName(r.ns, tn)
}

// resolveExpr resolves e's type and mutability effect, recording both in
// the side-tables and folding the effect into the function-wide check.
func (r *FunctionResolver) resolveExpr(s *scope, e syntax.Expr) (types.Type, types.Mutability) {
	if e == nil {
		return nil, types.Pure
	}
	t, eff := r.resolveExprInner(s, e)
	r.exprTypes[e] = t
	r.observe(eff, e.Span())
	return t, eff
}

func (r *FunctionResolver) resolveExprInner(s *scope, e syntax.Expr) (types.Type, types.Mutability) {
	switch v := e.(type) {
	case *syntax.Literal:
		return literalType(v), types.Pure

	case *syntax.Ident:
		return r.resolveIdent(s, v)

	case *syntax.BinaryExpr:
		lt, leff := r.resolveExpr(s, v.Left)
		rt, reff := r.resolveExpr(s, v.Right)
		eff := maxEffect(leff, reff)
		v.Unchecked = r.unchecked
		switch v.Op {
		case syntax.OpEq, syntax.OpNotEq, syntax.OpLt, syntax.OpLte, syntax.OpGt, syntax.OpGte,
			syntax.OpAnd, syntax.OpOr:
			return types.Bool{}, eff
		case syntax.OpShl, syntax.OpShr:
			if it, ok := rt.(types.Int); ok && !types.ValidShiftAmount(it) {
				r.ns.Bus.Errorf(diag.ErrWidthMismatch, v.Right.Span(), "shift amount must be unsigned and at most 256 bits wide")
			}
			return lt, eff
		default:
			return r.arithmeticType(v.Span(), lt, rt), eff
		}

	case *syntax.UnaryExpr:
		t, eff := r.resolveExpr(s, v.Operand)
		v.Unchecked = r.unchecked
		if v.Op == syntax.OpNot {
			return types.Bool{}, eff
		}
		return t, eff

	case *syntax.AssignExpr:
		rt, reff := r.resolveExpr(s, v.RHS)
		lt, leff := r.resolveExpr(s, v.LHS)
		eff := maxEffect(maxEffect(leff, reff), r.assignmentEffect(v.LHS))
		_, sawExplicit := isExplicitCast(v.RHS)
		if c := r.reconcile(v.Span(), v.RHS, rt, lt, sawExplicit, true); c != nil {
			r.conversions[v] = c
		}
		return lt, eff

	case *syntax.CallExpr:
		return r.resolveCall(s, v)

	case *syntax.FieldAccessExpr:
		return r.resolveFieldAccess(s, v)

	case *syntax.IndexExpr:
		rt, reff := r.resolveExpr(s, v.Receiver)
		ieff := types.Pure
		if v.Index != nil {
			_, ieff = r.resolveExpr(s, v.Index)
		}
		return elementType(rt), maxEffect(reff, ieff)

	case *syntax.TupleExpr:
		var last types.Type
		eff := types.Pure
		for _, el := range v.Elements {
			if el == nil {
				continue
			}
			t, e := r.resolveExpr(s, el)
			last = t
			eff = maxEffect(eff, e)
		}
		return last, eff

	case *syntax.ConditionalExpr:
		_, ceff := r.resolveExpr(s, v.Cond)
		tt, teff := r.resolveExpr(s, v.Then)
		_, eeff := r.resolveExpr(s, v.Else)
		return tt, maxEffect(ceff, maxEffect(teff, eeff))

	case *syntax.CastExpr:
		from, eff := r.resolveExpr(s, v.Operand)
		to := r.resolveTypeNameLocal(v.Target)
		r.conversions[v] = &Conversion{From: from, To: to, Checked: v.Checked, AlreadyExplicit: true}
		return to, eff

	case *syntax.NewExpr:
		eff := types.Nonpayable
		for _, a := range v.Args {
			_, e := r.resolveExpr(s, a)
			eff = maxEffect(eff, e)
		}
		return r.resolveTypeNameLocal(v.Type), eff

	case *syntax.StructLiteralExpr:
		eff := types.Pure
		for _, fv := range v.Fields {
			_, e := r.resolveExpr(s, fv)
			eff = maxEffect(eff, e)
		}
		return r.resolveTypeNameLocal(v.Type), eff

	default:
		return nil, types.Pure
	}
}

// assignmentEffect reports the effect of writing to lhs: storage writes
// (state variables, struct fields, array/mapping slots reachable through
// them) are at least Nonpayable; writing a local or parameter is Pure.
func (r *FunctionResolver) assignmentEffect(lhs syntax.Expr) types.Mutability {
	switch v := lhs.(type) {
	case *syntax.Ident:
		if sym, ok := r.contract.Scope.LookupLocal(v.Name); ok && sym.Kind == namespace.SymbolStateVariable {
			return types.Nonpayable
		}
		return types.Pure
	case *syntax.FieldAccessExpr, *syntax.IndexExpr:
		return types.Nonpayable
	default:
		return types.Pure
	}
}

// resolveIdent binds id against the local scope stack first, then the
// contract's member scope (which already carries every inherited member
// after propagateInheritedMembers has run).
func (r *FunctionResolver) resolveIdent(s *scope, id *syntax.Ident) (types.Type, types.Mutability) {
	if b, ok := s.lookup(id.Name); ok {
		switch b.Kind {
		case bindParameter, bindLocal:
			return b.Type, types.Pure
		}
	}
	if sym, ok := r.contract.Scope.LookupLocal(id.Name); ok && sym.Kind == namespace.SymbolStateVariable {
		owner := r.ns.Contracts[sym.Owner]
		if sym.Index < len(owner.StateVars) {
			sv := owner.StateVars[sym.Index]
			return sv.Type, types.View
		}
	}
	r.ns.Bus.Errorf(diag.ErrUndeclaredIdentifier, id.Span(), "undeclared identifier '"+id.Name+"'")
	return nil, types.Pure
}

func (r *FunctionResolver) resolveFieldAccess(s *scope, v *syntax.FieldAccessExpr) (types.Type, types.Mutability) {
	if path, ok := propertyPath(v); ok {
		if p, ok := builtins.LookupProperty(path); ok {
			if p.PayableOnly && r.fn.Mutability != types.Payable {
				r.ns.Bus.Errorf(diag.ErrPayableOnlyInNonPayable, v.Span(),
					"'"+path+"' may only be read inside a payable function")
			}
			return p.Type, p.Effect
		}
	}
	rt, reff := r.resolveExpr(s, v.Receiver)
	if _, ok := rt.(types.Address); ok {
		if m, ok := builtins.LookupAddressMember(v.Name); ok {
			var result types.Type = types.Void{}
			if len(m.Returns) == 1 {
				result = m.Returns[0]
			} else if len(m.Returns) > 1 {
				result = types.TupleOf(m.Returns)
			}
			return result, maxEffect(reff, m.Effect)
		}
	}
	if sr, ok := rt.(types.StructRef); ok {
		st := r.ns.Structs[sr.Index]
		for _, f := range st.Fields {
			if f.Name == v.Name {
				return f.Type, reff
			}
		}
	}
	r.ns.Bus.Errorf(diag.ErrUndeclaredIdentifier, v.Span(), "unknown member '"+v.Name+"'")
	return nil, reff
}

// propertyPath reconstructs a dotted context-property path ("msg.sender")
// from a FieldAccessExpr whose receiver is a bare Ident, to match against
// builtins.Properties.
func propertyPath(v *syntax.FieldAccessExpr) (string, bool) {
	id, ok := v.Receiver.(*syntax.Ident)
	if !ok {
		return "", false
	}
	switch id.Name {
	case "msg", "tx", "block":
		return id.Name + "." + v.Name, true
	default:
		return "", false
	}
}

func (r *FunctionResolver) resolveCall(s *scope, v *syntax.CallExpr) (types.Type, types.Mutability) {
	for _, a := range v.Args {
		r.resolveExpr(s, a)
	}
	for _, a := range v.NamedArgs {
		r.resolveExpr(s, a)
	}

	if id, ok := v.Callee.(*syntax.Ident); ok {
		if f, ok := builtins.LookupFunction(id.Name); ok {
			if len(f.Returns) == 1 {
				return f.Returns[0], f.Effect
			}
			if len(f.Returns) > 1 {
				return types.TupleOf(f.Returns), f.Effect
			}
			return types.Void{}, f.Effect
		}
		if sym, ok := r.contract.Scope.Lookup(id.Name); ok && sym.Kind == namespace.SymbolFunction {
			fn := r.resolveCalledFunction(sym)
			if fn != nil {
				eff := fn.Mutability
				if fn.Visibility == types.External {
					eff = types.Nonpayable
				}
				if len(fn.Returns) == 1 {
					return fn.Returns[0].Type, eff
				}
				if len(fn.Returns) > 1 {
					ts := make([]types.Type, len(fn.Returns))
					for i, rp := range fn.Returns {
						ts[i] = rp.Type
					}
					return types.TupleOf(ts), eff
				}
				return types.Void{}, eff
			}
		}
	}

	if fa, ok := v.Callee.(*syntax.FieldAccessExpr); ok {
		path, isProp := propertyPath(fa)
		name := path
		if !isProp {
			name = "abi." + fa.Name
		}
		if f, ok := builtins.LookupFunction(name); ok {
			if len(f.Returns) == 1 {
				return f.Returns[0], f.Effect
			}
			return types.Void{}, f.Effect
		}
		rt, reff := r.resolveExpr(s, fa.Receiver)
		if _, ok := rt.(types.Address); ok {
			if m, ok := builtins.LookupAddressMember(fa.Name); ok {
				if len(m.Returns) == 1 {
					return m.Returns[0], maxEffect(reff, m.Effect)
				}
				if len(m.Returns) > 1 {
					return types.TupleOf(m.Returns), maxEffect(reff, m.Effect)
				}
				return types.Void{}, maxEffect(reff, m.Effect)
			}
		}
		if rt != nil {
			if fn, lib := r.lookupUsingFunction(rt, fa.Name); fn != nil {
				v.Callee = &syntax.FieldAccessExpr{
					Receiver: &syntax.Ident{Name: lib.Name},
					Name:     fa.Name,
				}
				v.Args = append([]syntax.Expr{fa.Receiver}, v.Args...)

				eff := fn.Mutability
				if fn.Visibility == types.External {
					eff = types.Nonpayable
				}
				eff = maxEffect(reff, eff)
				if len(fn.Returns) == 1 {
					return fn.Returns[0].Type, eff
				}
				if len(fn.Returns) > 1 {
					ts := make([]types.Type, len(fn.Returns))
					for i, rp := range fn.Returns {
						ts[i] = rp.Type
					}
					return types.TupleOf(ts), eff
				}
				return types.Void{}, eff
			}
		}
	}

	r.ns.Bus.Errorf(diag.ErrNotCallable, v.Span(), "call target is not callable")
	return nil, types.Nonpayable
}

// lookupUsingFunction resolves x.libFn(...) library-call sugar: it searches
// the contract's own `using` directives before the namespace's file-scoped
// ones, matching a directive whose bound type is nil (`using Lib for *`) or
// equal to recvType, and returns the library function fn.Name names plus
// the library contract it lives on.
func (r *FunctionResolver) lookupUsingFunction(recvType types.Type, name string) (*namespace.Function, *namespace.Contract) {
	search := func(directives []*namespace.UsingDirective) (*namespace.Function, *namespace.Contract) {
		for _, ud := range directives {
			if ud.Type != nil && !ud.Type.Equal(recvType) {
				continue
			}
			lib := r.ns.Contracts[ud.LibraryIndex]
			sym, ok := lib.Scope.Lookup(name)
			if !ok || sym.Kind != namespace.SymbolFunction || sym.Owner != ud.LibraryIndex {
				continue
			}
			if fn := r.resolveCalledFunction(sym); fn != nil {
				return fn, lib
			}
		}
		return nil, nil
	}
	if fn, lib := search(r.contract.Using); fn != nil {
		return fn, lib
	}
	return search(r.ns.Using)
}

func (r *FunctionResolver) resolveCalledFunction(sym *namespace.Symbol) *namespace.Function {
	owner := r.ns.Contracts[sym.Owner]
	if sym.Index < len(owner.Functions) {
		return owner.Functions[sym.Index]
	}
	return nil
}

func literalType(l *syntax.Literal) types.Type {
	switch l.Kind {
	case syntax.LiteralBool:
		return types.Bool{}
	case syntax.LiteralString:
		return types.String{}
	case syntax.LiteralHexString:
		return types.DynamicBytes{}
	case syntax.LiteralAddress:
		return types.Address{}
	default:
		return types.Int{Bits: 256, Signed: false}
	}
}

func elementType(t types.Type) types.Type {
	switch v := t.(type) {
	case types.Array:
		return v.Element
	case types.Mapping:
		return v.Value
	default:
		return nil
	}
}

func maxEffect(a, b types.Mutability) types.Mutability {
	rank := func(m types.Mutability) int {
		switch m {
		case types.Pure:
			return 0
		case types.View:
			return 1
		case types.Nonpayable:
			return 2
		case types.Payable:
			return 3
		}
		return 0
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}
