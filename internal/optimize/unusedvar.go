package optimize

import "solcore/internal/cfg"

// UnusedVariableElimination deletes SetLocal instructions whose destination
// is never read and whose right-hand side has no side effect, propagating
// to a fixed point within a single call the way spec.md §4.5 pass 6 asks
// (the outer Pipeline.Run loop would eventually reach the same fixed point
// across passes regardless; looping here too keeps this pass's own
// before/after observable behavior self-contained).
type UnusedVariableElimination struct{}

func (*UnusedVariableElimination) Name() string { return "unused variable elimination" }

func (p *UnusedVariableElimination) Apply(f *cfg.Function) bool {
	anyChanged := false
	for {
		used := collectUsedNames(f)
		roundChanged := false

		for _, blk := range f.Blocks {
			kept := blk.Instructions[:0]
			for _, instr := range blk.Instructions {
				if sl, ok := instr.(*cfg.SetLocal); ok {
					name := f.Var(sl.Dst).Name
					if !used[name] && isPureExpr(sl.Value) {
						roundChanged = true
						continue
					}
				}
				kept = append(kept, instr)
			}
			blk.Instructions = kept
		}

		if !roundChanged {
			break
		}
		anyChanged = true
	}
	return anyChanged
}
