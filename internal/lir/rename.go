package lir

import (
	"solcore/internal/cfg"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// renameIdent rewrites every Ident leaf in e, in place, via lookup. Used
// both to substitute a use site with the SSA name currently reaching it and,
// after vartable registration, to do nothing when lookup returns the name
// unchanged (globals, builtins, field/member names are never pushed onto a
// rename stack and so pass through as-is).
func renameIdent(e syntax.Expr, lookup func(string) string) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *syntax.Ident:
		v.Name = lookup(v.Name)
	case *syntax.BinaryExpr:
		renameIdent(v.Left, lookup)
		renameIdent(v.Right, lookup)
	case *syntax.UnaryExpr:
		renameIdent(v.Operand, lookup)
	case *syntax.AssignExpr:
		renameIdent(v.LHS, lookup)
		renameIdent(v.RHS, lookup)
	case *syntax.CallExpr:
		renameIdent(v.Callee, lookup)
		for _, a := range v.Args {
			renameIdent(a, lookup)
		}
		for _, a := range v.NamedArgs {
			renameIdent(a, lookup)
		}
		renameIdent(v.ValueOption, lookup)
		renameIdent(v.GasOption, lookup)
	case *syntax.FieldAccessExpr:
		renameIdent(v.Receiver, lookup)
	case *syntax.IndexExpr:
		renameIdent(v.Receiver, lookup)
		renameIdent(v.Index, lookup)
	case *syntax.TupleExpr:
		for _, el := range v.Elements {
			renameIdent(el, lookup)
		}
	case *syntax.ConditionalExpr:
		renameIdent(v.Cond, lookup)
		renameIdent(v.Then, lookup)
		renameIdent(v.Else, lookup)
	case *syntax.CastExpr:
		renameIdent(v.Operand, lookup)
	case *syntax.NewExpr:
		for _, a := range v.Args {
			renameIdent(a, lookup)
		}
	case *syntax.StructLiteralExpr:
		for _, fv := range v.Fields {
			renameIdent(fv, lookup)
		}
	}
}

func renameInstrOperands(instr cfg.Instruction, lookup func(string) string) {
	switch v := instr.(type) {
	case *cfg.SetLocal:
		renameIdent(v.Value, lookup)
	case *cfg.LoadStorage:
		renameIdent(v.SlotExpr, lookup)
	case *cfg.SetStorage:
		renameIdent(v.SlotExpr, lookup)
		renameIdent(v.Value, lookup)
	case *cfg.EvalForEffect:
		renameIdent(v.Value, lookup)
	case *cfg.Emit:
		for _, a := range v.Args {
			renameIdent(a, lookup)
		}
	case *cfg.ABIEncode:
		for _, a := range v.Values {
			renameIdent(a, lookup)
		}
	case *cfg.Invoke:
		for _, a := range v.Args {
			renameIdent(a, lookup)
		}
	}
}

func renameTermOperands(term cfg.Terminator, lookup func(string) string) {
	switch t := term.(type) {
	case *cfg.Branch:
		renameIdent(t.Cond, lookup)
	case *cfg.Return:
		for _, v := range t.Values {
			renameIdent(v, lookup)
		}
	case *cfg.Revert:
		for _, a := range t.Args {
			renameIdent(a, lookup)
		}
	case *cfg.Switch:
		renameIdent(t.Cond, lookup)
	}
}

type nameType struct {
	name string
	typ  types.Type
}

// destInfos returns the cfg vartable name/type of every value instr defines,
// in the order emitters should assign fresh SSA names.
func destInfos(f *cfg.Function, instr cfg.Instruction) []nameType {
	one := func(id cfg.VarID) []nameType {
		v := f.Var(id)
		return []nameType{{v.Name, v.Type}}
	}
	many := func(ids []cfg.VarID) []nameType {
		out := make([]nameType, len(ids))
		for i, id := range ids {
			v := f.Var(id)
			out[i] = nameType{v.Name, v.Type}
		}
		return out
	}
	switch v := instr.(type) {
	case *cfg.SetLocal:
		return one(v.Dst)
	case *cfg.LoadStorage:
		return one(v.Dst)
	case *cfg.CalldataLen:
		return one(v.Dst)
	case *cfg.ReadSelector:
		return one(v.Dst)
	case *cfg.ABIDecode:
		return many(v.Dsts)
	case *cfg.Invoke:
		return many(v.Dsts)
	default:
		return nil
	}
}
