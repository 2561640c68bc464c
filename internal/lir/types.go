// Package lir converts an optimised control-flow graph into strict static
// single assignment form (spec.md §4.6): every temporary gets exactly one
// defining instruction, and joins at block headers become explicit phi
// instructions. The conversion uses the classic dominance-frontier
// algorithm; spec.md §4.6 requires its existence and semantics-preserving
// correctness, not a particular variant, so this package reuses
// internal/cfg's own instruction and terminator shapes for the lowered
// body rather than inventing a parallel instruction set — only the
// destination identity (a versioned name, not a cfg.VarID) and the
// explicit Phi at block headers are new.
//
// Grounded on original_source/src/lir/converter/vartable.rs's Vartable
// (an ordered map of id -> Var, with a monotonic next-id counter) and the
// teacher's internal/ir/types.go Value/Use bookkeeping, adapted from
// pointer identity to this repo's name-indexed convention.
package lir

import (
	"fmt"

	"solcore/internal/cfg"
	"solcore/internal/types"
)

// Var is one strict-SSA vartable entry: a single versioned name with
// exactly one defining instruction anywhere in the function.
type Var struct {
	Name string
	Type types.Type
}

// Vartable mints fresh versioned names on demand. Mirrors vartable.rs's
// IndexMap-ordered, monotonic-counter shape as a Go slice plus a per-base-
// name counter.
type Vartable struct {
	Vars    []*Var
	version map[string]int
}

func NewVartable() *Vartable {
	return &Vartable{version: make(map[string]int)}
}

// Fresh mints a new SSA name derived from base (the cfg vartable name the
// value versions) and registers it with type t.
func (vt *Vartable) Fresh(base string, t types.Type) string {
	n := vt.version[base]
	vt.version[base] = n + 1
	name := fmt.Sprintf("%s.%d", base, n)
	vt.Vars = append(vt.Vars, &Var{Name: name, Type: t})
	return name
}

// Phi joins one incoming SSA value per predecessor edge into Dst, at the
// header of the block it belongs to.
type Phi struct {
	Dst  string
	Type types.Type
	Args map[cfg.BlockID]string
}

// Instruction wraps one cfg.Instruction whose expression operands have
// already been rewritten, in place, to reference SSA names instead of cfg
// vartable names. Dsts carries the SSA name(s) this instruction defines, in
// the same order as the wrapped instruction's own VarID destination(s) —
// Op's own Dst/Dsts field is stale once wrapped and must not be consulted.
type Instruction struct {
	Dsts []string
	Op   cfg.Instruction
}

// Block mirrors cfg.Block with an added Phis slice at its head.
type Block struct {
	ID           cfg.BlockID
	Phis         []*Phi
	Instructions []*Instruction
	Terminator   cfg.Terminator
	Predecessors []cfg.BlockID
}

// Function is one function lowered to strict SSA.
type Function struct {
	Name   string
	Vars   *Vartable
	Entry  cfg.BlockID
	Blocks []*Block
}

// Block looks up a block by its original cfg.BlockID. Unlike cfg.Function's
// Block, this cannot assume slice position equals ID: Lower drops blocks
// unreachable from Entry, so IDs are no longer dense.
func (f *Function) Block(id cfg.BlockID) *Block {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}
