package optimize

import (
	"strconv"

	"solcore/internal/cfg"
	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// DeadStorageElimination deletes the always-safe half of spec.md §4.5 pass
// 4 within a single function: a write unconditionally followed by another
// write to the same slot before any intervening read, and a read whose
// loaded value is never used anywhere in the function. An Invoke —
// a call into another function's CFG — conservatively forgets every pending
// write, since the callee may read or write arbitrary storage.
//
// The whole-program half of the rule ("slots written but never read
// anywhere are kept unless the variable is private and genuinely unused")
// needs visibility across every function of a contract at once, including
// synthesized getters; EliminateUnreadPrivateSlots in this file implements
// that part and is run once per contract by internal/pipeline after every
// function's CFG (including getters) has been built.
type DeadStorageElimination struct{}

func (*DeadStorageElimination) Name() string { return "dead storage elimination" }

func (p *DeadStorageElimination) Apply(f *cfg.Function) bool {
	used := collectUsedNames(f)
	changed := false

	for _, blk := range f.Blocks {
		lastWrite := map[string]int{}
		toDelete := map[int]bool{}

		for i, instr := range blk.Instructions {
			switch v := instr.(type) {
			case *cfg.LoadStorage:
				key := storageKey(v.Slot, v.SlotExpr)
				delete(lastWrite, key)
				if !used[f.Var(v.Dst).Name] {
					toDelete[i] = true
					changed = true
				}
			case *cfg.SetStorage:
				key := storageKey(v.Slot, v.SlotExpr)
				if prev, ok := lastWrite[key]; ok {
					toDelete[prev] = true
					changed = true
				}
				lastWrite[key] = i
			case *cfg.Invoke, *cfg.EvalForEffect:
				lastWrite = map[string]int{}
			}
		}

		if len(toDelete) == 0 {
			continue
		}
		kept := blk.Instructions[:0]
		for i, instr := range blk.Instructions {
			if toDelete[i] {
				continue
			}
			kept = append(kept, instr)
		}
		blk.Instructions = kept
	}
	return changed
}

func storageKey(slot int, slotExpr syntax.Expr) string {
	if slotExpr != nil {
		return "expr:" + canonicalKey(slotExpr)
	}
	return "slot:" + strconv.Itoa(slot)
}

// EliminateUnreadPrivateSlots deletes SetStorage instructions targeting a
// statically-addressed (non-mapping, non-array) state variable's slot when
// that variable is not public/constant/immutable and no LoadStorage across
// any of the contract's functions (fns, which must include synthesized
// getters) ever reads that slot. Mapping/array-backed slots are always
// addressed through a SlotExpr and are conservatively never pruned here.
func EliminateUnreadPrivateSlots(c *namespace.Contract, fns []*cfg.Function) bool {
	read := make(map[int]bool)
	for _, f := range fns {
		for _, blk := range f.Blocks {
			for _, instr := range blk.Instructions {
				if ld, ok := instr.(*cfg.LoadStorage); ok && ld.SlotExpr == nil {
					read[ld.Slot] = true
				}
			}
		}
	}

	changed := false
	for _, sv := range c.StateVars {
		if sv.Visibility == types.Public || sv.Constant || sv.Immutable || read[sv.Slot] {
			continue
		}
		for _, f := range fns {
			for _, blk := range f.Blocks {
				kept := blk.Instructions[:0]
				for _, instr := range blk.Instructions {
					if st, ok := instr.(*cfg.SetStorage); ok && st.SlotExpr == nil && st.Slot == sv.Slot {
						changed = true
						continue
					}
					kept = append(kept, instr)
				}
				blk.Instructions = kept
			}
		}
	}
	return changed
}
