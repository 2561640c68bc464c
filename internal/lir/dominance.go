package lir

import "solcore/internal/cfg"

func blockSuccessors(b *cfg.Block) []cfg.BlockID {
	switch t := b.Terminator.(type) {
	case *cfg.Jump:
		return []cfg.BlockID{t.Target}
	case *cfg.Branch:
		return []cfg.BlockID{t.Then, t.Else}
	case *cfg.Switch:
		succs := make([]cfg.BlockID, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			succs = append(succs, c.Target)
		}
		return append(succs, t.Default)
	default:
		return nil
	}
}

func reversePostorder(f *cfg.Function) []cfg.BlockID {
	visited := make(map[cfg.BlockID]bool)
	var post []cfg.BlockID
	var visit func(cfg.BlockID)
	visit = func(id cfg.BlockID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, s := range blockSuccessors(f.Block(id)) {
			visit(s)
		}
		post = append(post, id)
	}
	visit(f.Entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// dominatorTree computes each reachable block's immediate dominator using
// the Cooper/Harvey/Kennedy iterative algorithm, which converges in a few
// passes over a reverse-postorder walk without needing a separate
// depth-first-spanning-tree structure.
func dominatorTree(f *cfg.Function) map[cfg.BlockID]cfg.BlockID {
	order := reversePostorder(f)
	idx := make(map[cfg.BlockID]int, len(order))
	for i, b := range order {
		idx[b] = i
	}

	doms := map[cfg.BlockID]cfg.BlockID{f.Entry: f.Entry}
	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == f.Entry {
				continue
			}
			var newIdom cfg.BlockID
			found := false
			for _, p := range f.Block(b).Predecessors {
				if _, ok := doms[p]; !ok {
					continue
				}
				if !found {
					newIdom = p
					found = true
					continue
				}
				newIdom = intersect(newIdom, p, doms, idx)
			}
			if !found {
				continue
			}
			if old, ok := doms[b]; !ok || old != newIdom {
				doms[b] = newIdom
				changed = true
			}
		}
	}
	return doms
}

func intersect(a, b cfg.BlockID, doms map[cfg.BlockID]cfg.BlockID, idx map[cfg.BlockID]int) cfg.BlockID {
	for a != b {
		for idx[a] > idx[b] {
			a = doms[a]
		}
		for idx[b] > idx[a] {
			b = doms[b]
		}
	}
	return a
}

// dominanceFrontiers computes, for every block, the set of blocks at which
// its dominance stops strictly holding — the set a phi for a value defined
// in that block must be pushed to.
func dominanceFrontiers(f *cfg.Function, doms map[cfg.BlockID]cfg.BlockID) map[cfg.BlockID][]cfg.BlockID {
	df := make(map[cfg.BlockID][]cfg.BlockID)
	for _, b := range f.Blocks {
		if len(b.Predecessors) < 2 {
			continue
		}
		for _, p := range b.Predecessors {
			if _, ok := doms[p]; !ok {
				continue
			}
			runner := p
			for runner != doms[b.ID] {
				df[runner] = appendUnique(df[runner], b.ID)
				runner = doms[runner]
			}
		}
	}
	return df
}

func appendUnique(s []cfg.BlockID, id cfg.BlockID) []cfg.BlockID {
	for _, x := range s {
		if x == id {
			return s
		}
	}
	return append(s, id)
}

func domChildren(f *cfg.Function, doms map[cfg.BlockID]cfg.BlockID) map[cfg.BlockID][]cfg.BlockID {
	children := make(map[cfg.BlockID][]cfg.BlockID)
	for _, b := range f.Blocks {
		idom, ok := doms[b.ID]
		if !ok || b.ID == f.Entry {
			continue
		}
		children[idom] = append(children[idom], b.ID)
	}
	return children
}
