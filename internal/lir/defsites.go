package lir

import "solcore/internal/cfg"

// collectDefSites maps each cfg vartable name to the set of blocks where it
// is (re)defined, parameters counting as defined at the entry block.
func collectDefSites(f *cfg.Function) map[string]map[cfg.BlockID]bool {
	sites := make(map[string]map[cfg.BlockID]bool)
	add := func(name string, b cfg.BlockID) {
		if sites[name] == nil {
			sites[name] = make(map[cfg.BlockID]bool)
		}
		sites[name][b] = true
	}
	for _, v := range f.Vars {
		if v.Parameter {
			add(v.Name, f.Entry)
		}
	}
	for _, blk := range f.Blocks {
		for _, instr := range blk.Instructions {
			for _, d := range destInfos(f, instr) {
				add(d.name, blk.ID)
			}
		}
	}
	return sites
}

// placePhis implements the standard iterated dominance-frontier worklist:
// a definition of name in block b forces a phi at every block in b's
// dominance frontier, and each phi is itself a new definition that can
// force further phis.
func placePhis(defSites map[string]map[cfg.BlockID]bool, df map[cfg.BlockID][]cfg.BlockID) map[string]map[cfg.BlockID]bool {
	phiSites := make(map[string]map[cfg.BlockID]bool)
	for name, defs := range defSites {
		hasPhi := make(map[cfg.BlockID]bool)
		worklist := make([]cfg.BlockID, 0, len(defs))
		for b := range defs {
			worklist = append(worklist, b)
		}
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, y := range df[b] {
				if hasPhi[y] {
					continue
				}
				hasPhi[y] = true
				if phiSites[name] == nil {
					phiSites[name] = make(map[cfg.BlockID]bool)
				}
				phiSites[name][y] = true
				if !defs[y] {
					worklist = append(worklist, y)
				}
			}
		}
	}
	return phiSites
}
