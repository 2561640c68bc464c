package lir

import (
	"solcore/internal/cfg"
	"solcore/internal/types"
)

// Lower converts an optimised cfg.Function into strict SSA form. It mutates
// the cfg tree's expression nodes in place while renaming them (the same
// destructive-rewrite convention internal/optimize's passes already use),
// so Lower should run once, as the last step before an emitter consumes the
// function.
func Lower(f *cfg.Function) *Function {
	doms := dominatorTree(f)
	df := dominanceFrontiers(f, doms)
	children := domChildren(f, doms)
	defSites := collectDefSites(f)
	phiSites := placePhis(defSites, df)

	declaredType := make(map[string]types.Type, len(f.Vars))
	for _, v := range f.Vars {
		declaredType[v.Name] = v.Type
	}

	vt := NewVartable()
	lirBlocks := make(map[cfg.BlockID]*Block, len(f.Blocks))
	for _, b := range f.Blocks {
		lirBlocks[b.ID] = &Block{ID: b.ID, Predecessors: b.Predecessors}
	}

	// phiOrigName remembers, per phi instance, the cfg vartable name it
	// versions, so the renaming walk can push/pop it alongside ordinary
	// definitions without storing that bookkeeping on the public Phi type.
	// phisAt is keyed by (block, name) rather than discovered while walking,
	// because a CFG predecessor edge can be processed before the dominator
	// tree walk reaches the successor that owns the phi — every phi a block
	// needs must already exist before the walk starts.
	phiOrigName := make(map[*Phi]string)
	phisAt := make(map[cfg.BlockID]map[string]*Phi)
	for name, blocks := range phiSites {
		t := declaredType[name]
		for b := range blocks {
			if _, ok := doms[b]; !ok {
				continue
			}
			phi := &Phi{Type: t, Args: make(map[cfg.BlockID]string)}
			phiOrigName[phi] = name
			lirBlocks[b].Phis = append(lirBlocks[b].Phis, phi)
			if phisAt[b] == nil {
				phisAt[b] = make(map[string]*Phi)
			}
			phisAt[b][name] = phi
		}
	}

	stacks := make(map[string][]string)
	top := func(name string) string {
		s := stacks[name]
		if len(s) == 0 {
			return name
		}
		return s[len(s)-1]
	}
	push := func(name, ssa string) { stacks[name] = append(stacks[name], ssa) }
	pop := func(name string) { stacks[name] = stacks[name][:len(stacks[name])-1] }

	var walk func(id cfg.BlockID)
	walk = func(id cfg.BlockID) {
		src := f.Block(id)
		dst := lirBlocks[id]
		var pushed []string

		for name, phi := range phisAt[id] {
			phi.Dst = vt.Fresh(name, phi.Type)
			push(name, phi.Dst)
			pushed = append(pushed, name)
		}

		if id == f.Entry {
			for _, v := range f.Vars {
				if !v.Parameter {
					continue
				}
				ssa := vt.Fresh(v.Name, v.Type)
				push(v.Name, ssa)
				pushed = append(pushed, v.Name)
			}
		}

		for _, instr := range src.Instructions {
			renameInstrOperands(instr, top)
			dsts := destInfos(f, instr)
			wrapped := &Instruction{Op: instr}
			for _, d := range dsts {
				ssa := vt.Fresh(d.name, d.typ)
				wrapped.Dsts = append(wrapped.Dsts, ssa)
				push(d.name, ssa)
				pushed = append(pushed, d.name)
			}
			dst.Instructions = append(dst.Instructions, wrapped)
		}

		if src.Terminator != nil {
			renameTermOperands(src.Terminator, top)
			dst.Terminator = src.Terminator
		}

		for _, succ := range blockSuccessors(src) {
			for _, phi := range lirBlocks[succ].Phis {
				phi.Args[id] = top(phiOrigName[phi])
			}
		}

		for _, c := range children[id] {
			walk(c)
		}
		for _, name := range pushed {
			pop(name)
		}
	}
	walk(f.Entry)

	// Blocks unreachable from Entry never appear in doms (dominatorTree only
	// walks the reachable graph) and are dropped here rather than carried
	// through with an un-renamed, half-built body.
	blocks := make([]*Block, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		if _, ok := doms[b.ID]; !ok {
			continue
		}
		blocks = append(blocks, lirBlocks[b.ID])
	}
	return &Function{Name: f.Name, Vars: vt, Entry: f.Entry, Blocks: blocks}
}
