package optimize

import (
	"fmt"
	"strings"

	"solcore/internal/cfg"
	"solcore/internal/syntax"
)

// visitInstrExprs applies visit to every syntax.Expr field an instruction
// carries and writes the (possibly rewritten) result back in place. A nil
// expr is passed through visit unchanged so callers never need a nil guard.
func visitInstrExprs(instr cfg.Instruction, visit func(syntax.Expr) syntax.Expr) {
	switch v := instr.(type) {
	case *cfg.SetLocal:
		v.Value = visit(v.Value)
	case *cfg.LoadStorage:
		v.SlotExpr = visit(v.SlotExpr)
	case *cfg.SetStorage:
		v.SlotExpr = visit(v.SlotExpr)
		v.Value = visit(v.Value)
	case *cfg.EvalForEffect:
		v.Value = visit(v.Value)
	case *cfg.Emit:
		for i, a := range v.Args {
			v.Args[i] = visit(a)
		}
	case *cfg.ABIEncode:
		for i, a := range v.Values {
			v.Values[i] = visit(a)
		}
	case *cfg.Invoke:
		for i, a := range v.Args {
			v.Args[i] = visit(a)
		}
	}
}

// visitTermExprs is visitInstrExprs's counterpart for block terminators.
func visitTermExprs(term cfg.Terminator, visit func(syntax.Expr) syntax.Expr) {
	switch t := term.(type) {
	case *cfg.Branch:
		t.Cond = visit(t.Cond)
	case *cfg.Return:
		for i, val := range t.Values {
			t.Values[i] = visit(val)
		}
	case *cfg.Revert:
		for i, a := range t.Args {
			t.Args[i] = visit(a)
		}
	case *cfg.Switch:
		t.Cond = visit(t.Cond)
	}
}

// forEachExpr runs visit, read-only style, over every expression reachable
// from every instruction and terminator in f.
func forEachExpr(f *cfg.Function, visit func(syntax.Expr)) {
	identity := func(e syntax.Expr) syntax.Expr {
		walkExprTree(e, visit)
		return e
	}
	for _, blk := range f.Blocks {
		for _, instr := range blk.Instructions {
			visitInstrExprs(instr, identity)
		}
		if blk.Terminator != nil {
			visitTermExprs(blk.Terminator, identity)
		}
	}
}

// walkExprTree calls visit on e and recurses into every child expression.
func walkExprTree(e syntax.Expr, visit func(syntax.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *syntax.BinaryExpr:
		walkExprTree(v.Left, visit)
		walkExprTree(v.Right, visit)
	case *syntax.UnaryExpr:
		walkExprTree(v.Operand, visit)
	case *syntax.AssignExpr:
		walkExprTree(v.LHS, visit)
		walkExprTree(v.RHS, visit)
	case *syntax.CallExpr:
		walkExprTree(v.Callee, visit)
		for _, a := range v.Args {
			walkExprTree(a, visit)
		}
		for _, a := range v.NamedArgs {
			walkExprTree(a, visit)
		}
		walkExprTree(v.ValueOption, visit)
		walkExprTree(v.GasOption, visit)
	case *syntax.FieldAccessExpr:
		walkExprTree(v.Receiver, visit)
	case *syntax.IndexExpr:
		walkExprTree(v.Receiver, visit)
		walkExprTree(v.Index, visit)
	case *syntax.TupleExpr:
		for _, el := range v.Elements {
			walkExprTree(el, visit)
		}
	case *syntax.ConditionalExpr:
		walkExprTree(v.Cond, visit)
		walkExprTree(v.Then, visit)
		walkExprTree(v.Else, visit)
	case *syntax.CastExpr:
		walkExprTree(v.Operand, visit)
	case *syntax.NewExpr:
		for _, a := range v.Args {
			walkExprTree(a, visit)
		}
	case *syntax.StructLiteralExpr:
		for _, fv := range v.Fields {
			walkExprTree(fv, visit)
		}
	}
}

// isPureExpr reports whether e can be deleted without observable effect:
// no call, no constructor invocation, no assignment anywhere in its tree.
func isPureExpr(e syntax.Expr) bool {
	pure := true
	walkExprTree(e, func(n syntax.Expr) {
		switch n.(type) {
		case *syntax.CallExpr, *syntax.NewExpr, *syntax.AssignExpr:
			pure = false
		}
	})
	return pure
}

// collectUsedNames returns the set of local/parameter names read anywhere in
// f's instructions or terminators. Identifiers on the left of an AssignExpr
// are counted too; only a SetLocal's destination name is not visited.
func collectUsedNames(f *cfg.Function) map[string]bool {
	used := make(map[string]bool)
	forEachExpr(f, func(e syntax.Expr) {
		if id, ok := e.(*syntax.Ident); ok {
			used[id.Name] = true
		}
	})
	return used
}

// canonicalKey renders e as a structural string, stable across distinct
// *syntax nodes with the same shape, for use as a memoization/addressing key
// (CSE's "(opcode, operand-IDs, type)" key and dead-storage's slot key).
func canonicalKey(e syntax.Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch v := e.(type) {
	case *syntax.Ident:
		return "id:" + v.Name
	case *syntax.Literal:
		return fmt.Sprintf("lit:%d:%s", v.Kind, v.Text)
	case *syntax.BinaryExpr:
		return fmt.Sprintf("bin:%d(%s,%s)", v.Op, canonicalKey(v.Left), canonicalKey(v.Right))
	case *syntax.UnaryExpr:
		return fmt.Sprintf("un:%d(%s)", v.Op, canonicalKey(v.Operand))
	case *syntax.FieldAccessExpr:
		return fmt.Sprintf("field:%s.%s", canonicalKey(v.Receiver), v.Name)
	case *syntax.IndexExpr:
		return fmt.Sprintf("index:%s[%s]", canonicalKey(v.Receiver), canonicalKey(v.Index))
	case *syntax.CastExpr:
		return fmt.Sprintf("cast:%s(%s)", v.Target, canonicalKey(v.Operand))
	case *syntax.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = canonicalKey(a)
		}
		return fmt.Sprintf("call:%s(%s)", canonicalKey(v.Callee), strings.Join(args, ","))
	default:
		return fmt.Sprintf("%T", e)
	}
}

// rootIdentName unwraps a chain of field/index accesses down to its base
// identifier, for checking whether an indexed/field assignment writes
// through a particular named local.
func rootIdentName(e syntax.Expr) (string, bool) {
	switch v := e.(type) {
	case *syntax.Ident:
		return v.Name, true
	case *syntax.FieldAccessExpr:
		return rootIdentName(v.Receiver)
	case *syntax.IndexExpr:
		return rootIdentName(v.Receiver)
	default:
		return "", false
	}
}
