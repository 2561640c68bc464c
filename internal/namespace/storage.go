package namespace

import "solcore/internal/types"

// slotWidth is the number of bytes a storage slot holds on the target.
// This mirrors the target's value width (spec.md §6 value_length): a
// 32-byte EVM/Stylus slot, a narrower one on other backends.
func slotWidth(ns *Namespace) int {
	w := ns.Target.ValueLength
	if w <= 0 {
		w = 32
	}
	return w
}

// sizeOfStorageValue returns how many bytes of a slot a value type
// occupies, for packing purposes. Dynamic/composite types that own their
// own slot range return the target's full slot width (they are never
// packed alongside a sibling).
func sizeOfStorageValue(ns *Namespace, t types.Type) int {
	switch v := t.(type) {
	case types.Bool:
		return 1
	case types.Int:
		return v.Bits / 8
	case types.FixedBytes:
		return v.Width
	case types.Address:
		return 20
	default:
		return slotWidth(ns)
	}
}

// isPackable reports whether a type may share a slot with a sibling
// variable (spec.md §4.1: "storage slots (ordered, packed where the target
// permits)") — only fixed-size value types pack; mappings, dynamic arrays/
// bytes/strings and structs always start their own slot because their
// storage layout is itself target/size dependent.
func isPackable(t types.Type) bool {
	switch t.(type) {
	case types.Bool, types.Int, types.FixedBytes, types.Address:
		return true
	default:
		return false
	}
}

// AssignStorageLayout assigns each state variable (excluding constants,
// which are inlined and never occupy storage, and immutables, which live
// in code rather than storage) an ordered, packed storage slot, in
// declaration order (spec.md §4.1: "Resolve state-variable declarations:
// their types, storage slots (ordered, packed where the target permits)").
func AssignStorageLayout(ns *Namespace, c *Contract) {
	slot := 0
	offset := 0
	width := slotWidth(ns)

	for _, sv := range c.StateVars {
		if sv.Constant || sv.Immutable {
			continue
		}
		size := sizeOfStorageValue(ns, sv.Type)
		if size > width {
			size = width
		}

		if !isPackable(sv.Type) {
			if offset != 0 {
				slot++
				offset = 0
			}
			sv.Slot = slot
			sv.Offset = 0
			sv.SizeBytes = size
			slot++
			continue
		}

		if offset+size > width {
			slot++
			offset = 0
		}
		sv.Slot = slot
		sv.Offset = offset
		sv.SizeBytes = size
		offset += size
	}
}
