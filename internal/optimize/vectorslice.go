package optimize

import (
	"solcore/internal/cfg"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// VectorToSlice demotes a dynamic-bytes/string local to a read-only
// (pointer, length) pair once escape analysis proves nothing ever writes
// through it (spec.md §4.5 pass 5). Per the spec.md §9 Open Question
// decision this implements: passing the value as an argument to, or
// returning it from, any call disables the demotion for that value,
// alongside any index/field-write through it — both are conservative
// stand-ins for a real alias analysis, erring toward "not safe" whenever a
// use could plausibly let another owner mutate or retain the buffer.
type VectorToSlice struct{}

func (*VectorToSlice) Name() string { return "vector to slice conversion" }

func (p *VectorToSlice) Apply(f *cfg.Function) bool {
	changed := false
	for _, v := range f.Vars {
		if v.DemotedToSlice || !isDynamicBytesOrString(v.Type) {
			continue
		}
		if isSafeAsSlice(f, v.Name) {
			v.DemotedToSlice = true
			changed = true
		}
	}
	return changed
}

func isDynamicBytesOrString(t types.Type) bool {
	if q, ok := t.(types.Qualified); ok {
		t = q.Inner
	}
	switch t.(type) {
	case types.DynamicBytes, types.String:
		return true
	default:
		return false
	}
}

// isSafeAsSlice reports whether name is never passed to a call and never
// written through via an indexed or field assignment, anywhere in f.
func isSafeAsSlice(f *cfg.Function, name string) bool {
	safe := true
	check := func(e syntax.Expr) {
		if call, ok := e.(*syntax.CallExpr); ok {
			for _, a := range call.Args {
				if id, ok := a.(*syntax.Ident); ok && id.Name == name {
					safe = false
				}
			}
		}
		if assign, ok := e.(*syntax.AssignExpr); ok {
			var recv syntax.Expr
			switch lhs := assign.LHS.(type) {
			case *syntax.IndexExpr:
				recv = lhs.Receiver
			case *syntax.FieldAccessExpr:
				recv = lhs.Receiver
			}
			if root, ok := rootIdentName(recv); ok && root == name {
				safe = false
			}
		}
	}
	forEachExpr(f, check)
	for _, blk := range f.Blocks {
		if ret, ok := blk.Terminator.(*cfg.Return); ok {
			for _, val := range ret.Values {
				if id, ok := val.(*syntax.Ident); ok && id.Name == name {
					safe = false
				}
			}
		}
	}
	return safe
}
