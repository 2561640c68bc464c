package cfg

import (
	"strconv"

	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// storageRef locates a storage-backed lvalue: either a statically known
// (Slot, Offset) pair for a packed scalar, or a SlotExpr that computes the
// slot at runtime (mapping key hash, dynamic/fixed array index
// arithmetic) — grounded on original_source/src/resolver/storage.rs's
// `array_offset`, which chooses a left-shift over a multiply when the
// element size is a power of two.
type storageRef struct {
	Type     types.Type
	Slot     int
	Offset   int
	SlotExpr syntax.Expr
}

// storageRef resolves e to its storage location if e is an lvalue rooted
// at a state variable (directly, or through field/index chains), and
// reports false for anything else (locals, parameters, literals).
func (b *Builder) storageRef(e syntax.Expr) (storageRef, bool) {
	switch v := e.(type) {
	case *syntax.Ident:
		sym, ok := b.contract.Scope.LookupLocal(v.Name)
		if !ok || sym.Kind != namespace.SymbolStateVariable {
			return storageRef{}, false
		}
		owner := b.ns.Contracts[sym.Owner]
		if sym.Index >= len(owner.StateVars) {
			return storageRef{}, false
		}
		sv := owner.StateVars[sym.Index]
		return storageRef{Type: sv.Type, Slot: sv.Slot, Offset: sv.Offset}, true

	case *syntax.IndexExpr:
		base, ok := b.storageRef(v.Receiver)
		if !ok || v.Index == nil {
			return storageRef{}, false
		}
		switch bt := base.Type.(type) {
		case types.Mapping:
			return storageRef{Type: bt.Value, SlotExpr: mappingSlotExpr(base, v.Index)}, true
		case types.Array:
			return b.arrayElementRef(base, bt, v.Index)
		default:
			return storageRef{}, false
		}

	case *syntax.FieldAccessExpr:
		base, ok := b.storageRef(v.Receiver)
		if !ok {
			return storageRef{}, false
		}
		sr, ok := base.Type.(types.StructRef)
		if !ok {
			return storageRef{}, false
		}
		st := b.ns.Structs[sr.Index]
		for i, f := range st.Fields {
			if f.Name != v.Name {
				continue
			}
			if base.SlotExpr == nil && i == 0 {
				return storageRef{Type: f.Type, Slot: base.Slot, Offset: base.Offset}, true
			}
			return storageRef{Type: f.Type, SlotExpr: addExpr(slotValueExpr(base), literalInt(i))}, true
		}
		return storageRef{}, false

	default:
		return storageRef{}, false
	}
}

// mappingSlotExpr synthesizes Solidity's keccak256(key, baseSlot) mapping
// slot derivation as a resolved expression tree (a synthetic keccak256
// call over the key and the mapping's own slot), so internal/lir lowers
// it the same way it lowers any other call.
func mappingSlotExpr(base storageRef, key syntax.Expr) syntax.Expr {
	return &syntax.CallExpr{
		Callee: &syntax.Ident{Name: "keccak256"},
		Args:   []syntax.Expr{key, slotValueExpr(base)},
	}
}

// arrayElementRef computes the storage slot of arr[index]. Dynamic arrays
// root their elements at keccak256(slot); fixed arrays root them directly
// at slot. Either way the per-element stride is index*elementSlots,
// reduced to a shift when elementSlots is a power of two.
func (b *Builder) arrayElementRef(base storageRef, arr types.Array, index syntax.Expr) (storageRef, bool) {
	elemSlots := b.slotsPerElement(arr.Element)

	var root syntax.Expr
	if arr.IsDynamic() {
		root = &syntax.CallExpr{Callee: &syntax.Ident{Name: "keccak256"}, Args: []syntax.Expr{slotValueExpr(base)}}
	} else {
		root = slotValueExpr(base)
	}

	offset := scaledIndex(index, elemSlots)
	return storageRef{Type: arr.Element, SlotExpr: addExpr(root, offset)}, true
}

// slotsPerElement approximates how many 32-byte slots one array element
// occupies: one for any packable scalar, one per field for a struct
// (simplified: no intra-struct packing across array elements), one for a
// nested mapping/array (addressed through its own hash root).
func (b *Builder) slotsPerElement(t types.Type) int {
	switch v := t.(type) {
	case types.StructRef:
		st := b.ns.Structs[v.Index]
		if len(st.Fields) == 0 {
			return 1
		}
		return len(st.Fields)
	default:
		return 1
	}
}

func slotValueExpr(ref storageRef) syntax.Expr {
	if ref.SlotExpr != nil {
		return ref.SlotExpr
	}
	return literalInt(ref.Slot)
}

func scaledIndex(index syntax.Expr, n int) syntax.Expr {
	if n <= 1 {
		return index
	}
	if shift, ok := log2(n); ok {
		return &syntax.BinaryExpr{Op: syntax.OpShl, Left: index, Right: literalInt(shift)}
	}
	return &syntax.BinaryExpr{Op: syntax.OpMul, Left: index, Right: literalInt(n)}
}

func addExpr(a, b syntax.Expr) syntax.Expr {
	return &syntax.BinaryExpr{Op: syntax.OpAdd, Left: a, Right: b}
}

func literalInt(n int) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LiteralInt, Text: strconv.Itoa(n)}
}

func log2(n int) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	shift := 0
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift, true
}
