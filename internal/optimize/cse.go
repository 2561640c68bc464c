package optimize

import (
	"solcore/internal/cfg"
	"solcore/internal/syntax"
)

// CSE memoizes pure expressions by (opcode, operand, type) shape within a
// basic block and rewrites later occurrences to read the first computed
// temporary instead of recomputing it (spec.md §4.5 pass 3). Only
// within-block reuse is attempted — the tie-break spec.md §4.5 states for a
// cross-block merge ("placed in the nearest common dominator") requires
// dominator-tree placement this pass does not build; restricting to one
// block is the always-safe degenerate case of that rule. Expressions
// containing a call are never memoized, since a call may have a side
// effect this pass cannot see.
type CSE struct{}

func (*CSE) Name() string { return "common subexpression elimination" }

func (p *CSE) Apply(f *cfg.Function) bool {
	changed := false
	for _, blk := range f.Blocks {
		available := make(map[string]string) // canonical expr key -> variable name already holding it
		rename := make(map[string]string)     // redundant variable name -> canonical variable name

		kept := blk.Instructions[:0]
		for _, instr := range blk.Instructions {
			visitInstrExprs(instr, func(e syntax.Expr) syntax.Expr {
				return renameIdents(e, rename)
			})

			if sl, ok := instr.(*cfg.SetLocal); ok && isPureExpr(sl.Value) {
				key := canonicalKey(sl.Value)
				dstName := f.Var(sl.Dst).Name
				if canonical, ok := available[key]; ok {
					rename[dstName] = canonical
					changed = true
					continue
				}
				available[key] = dstName
			}
			kept = append(kept, instr)
		}
		blk.Instructions = kept

		if blk.Terminator != nil {
			visitTermExprs(blk.Terminator, func(e syntax.Expr) syntax.Expr {
				return renameIdents(e, rename)
			})
		}
	}
	return changed
}

// renameIdents rewrites every Ident in e whose name is a key of rename to
// the mapped canonical name, following chains (a renamed to b, b renamed to
// c) to their final target.
func renameIdents(e syntax.Expr, rename map[string]string) syntax.Expr {
	walkExprTree(e, func(n syntax.Expr) {
		if id, ok := n.(*syntax.Ident); ok {
			name := id.Name
			for {
				next, ok := rename[name]
				if !ok {
					break
				}
				name = next
			}
			id.Name = name
		}
	})
	return e
}
