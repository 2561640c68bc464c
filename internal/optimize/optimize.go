// Package optimize implements the fixed whole-CFG rewrite pipeline
// (spec.md §4.5): constant folding, strength reduction, common-subexpression
// elimination, dead-storage elimination, vector-to-slice conversion, and
// unused-variable elimination, each individually gated by configuration.
//
// Grounded on the teacher's internal/ir/optimizations.go: the
// OptimizationPass/OptimizationPipeline split is kept verbatim in shape
// (Name/Apply, a slice of passes run in a fixed order), generalized from the
// teacher's three hard-coded passes to all six named here, and adapted from
// the teacher's *Value/*BasicBlock pointer IR to this repo's
// VarID/BlockID-indexed cfg.Function.
package optimize

import (
	"solcore/internal/cfg"
	"solcore/internal/diag"
	"solcore/internal/target"
)

// Pass is one whole-CFG rewrite. Apply reports whether it changed f, mirroring
// the teacher's OptimizationPass.Apply contract.
type Pass interface {
	Name() string
	Apply(f *cfg.Function) bool
}

// Pipeline runs a configuration-gated sequence of passes to a fixed point.
type Pipeline struct {
	passes []Pass
}

// New builds the pipeline opts implies: each pass appears only if its
// toggle is set, in the fixed order spec.md §4.5 lists them. bus receives
// any diagnostics a pass produces while rewriting f (currently just
// ConstantFolding's checked-mode overflow trap).
func New(opts target.Options, bus *diag.Bus) *Pipeline {
	p := &Pipeline{}
	if opts.ConstantFolding {
		p.passes = append(p.passes, &ConstantFolding{Bus: bus})
	}
	if opts.StrengthReduce {
		p.passes = append(p.passes, &StrengthReduction{})
	}
	if opts.CommonSubexpressionElimination {
		p.passes = append(p.passes, &CSE{})
	}
	if opts.DeadStorage {
		p.passes = append(p.passes, &DeadStorageElimination{})
	}
	if opts.VectorToSlice {
		p.passes = append(p.passes, &VectorToSlice{})
	}
	if opts.UnusedVariableElimination {
		p.passes = append(p.passes, &UnusedVariableElimination{})
	}
	return p
}

// maxRounds bounds the fixed-point loop. Every pass is monotone — it only
// deletes instructions or replaces one with something structurally simpler
// — so convergence is guaranteed well inside this many rounds for any
// function built from source; this is fuel, not a real limit.
const maxRounds = 64

// Run applies every enabled pass to f until none of them report a change, or
// maxRounds is hit, satisfying spec.md §8's "running the optimiser twice is
// equivalent to running it once" property for any fewer number of prior
// runs too.
func (p *Pipeline) Run(f *cfg.Function) {
	for round := 0; round < maxRounds; round++ {
		changed := false
		for _, pass := range p.passes {
			if pass.Apply(f) {
				changed = true
			}
		}
		cfg.MarkReachability(f.Blocks, f.Entry)
		if !changed {
			return
		}
	}
}
