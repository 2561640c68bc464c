package cfg

import (
	"strconv"

	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// BuildGetter synthesizes the CFG body for an implicit public-state-
// variable accessor (namespace.SynthesizeGetters). There is no source
// statement tree to resolve — fn.Body is nil — so this builds the block
// directly the way internal/dispatch hand-assembles the dispatcher CFG,
// reusing storage.go's storageRef/mappingSlotExpr/arrayElementRef slot
// arithmetic to walk the same mapping/array layers getterSignature
// peeled when it shaped fn.Params.
func BuildGetter(ns *namespace.Namespace, c *namespace.Contract, fn *namespace.Function) *Function {
	sv := c.StateVars[fn.GetterOf]
	b := &Builder{ns: ns, contract: c, fn: fn, varIndex: make(map[string]VarID)}

	entry := b.newBlock()
	b.current = entry

	for i, p := range fn.Params {
		b.declareVar(paramVarName(i), p.Type, true, false)
	}

	cur := storageRef{Type: sv.Type, Slot: sv.Slot, Offset: sv.Offset}
	paramIdx := 0
	for {
		switch v := cur.Type.(type) {
		case types.Qualified:
			cur = storageRef{Type: v.Inner, Slot: cur.Slot, Offset: cur.Offset, SlotExpr: cur.SlotExpr}
			continue
		case types.Mapping:
			key := &syntax.Ident{Name: paramVarName(paramIdx)}
			cur = storageRef{Type: v.Value, SlotExpr: mappingSlotExpr(cur, key)}
			paramIdx++
			continue
		case types.Array:
			index := &syntax.Ident{Name: paramVarName(paramIdx)}
			ref, _ := b.arrayElementRef(cur, v, index)
			cur = ref
			paramIdx++
			continue
		}
		break
	}

	var retVals []syntax.Expr
	if sr, ok := cur.Type.(types.StructRef); ok {
		st := ns.Structs[sr.Index]
		for i, f := range st.Fields {
			if types.IsMappingOrArray(f.Type) {
				continue
			}
			var ref storageRef
			if cur.SlotExpr == nil && i == 0 {
				ref = storageRef{Type: f.Type, Slot: cur.Slot, Offset: cur.Offset}
			} else {
				ref = storageRef{Type: f.Type, SlotExpr: addExpr(slotValueExpr(cur), literalInt(i))}
			}
			vid := b.declareVar("$field"+strconv.Itoa(i), f.Type, false, false)
			b.emit(&LoadStorage{Dst: vid, Type: ref.Type, Slot: ref.Slot, Offset: ref.Offset, SlotExpr: ref.SlotExpr})
			retVals = append(retVals, &syntax.Ident{Name: b.vars[vid].Name})
		}
	} else {
		vid := b.declareVar("$value", cur.Type, false, false)
		b.emit(&LoadStorage{Dst: vid, Type: cur.Type, Slot: cur.Slot, Offset: cur.Offset, SlotExpr: cur.SlotExpr})
		retVals = []syntax.Expr{&syntax.Ident{Name: b.vars[vid].Name}}
	}
	b.terminate(entry, &Return{Values: retVals})

	f := &Function{
		Name:         fn.Name,
		Vars:         b.vars,
		Entry:        entry,
		Blocks:       b.blocks,
		SuccessExits: b.successExits,
	}
	MarkReachability(f.Blocks, f.Entry)
	return f
}

func paramVarName(i int) string {
	return "$key" + strconv.Itoa(i)
}
