package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// CheckOverrides resolves, for every contract in the program, which
// ancestor function(s) each of its own functions overrides (spec.md §4.2:
// "resolve to the most-derived function consistent with the
// linearisation"), and validates the two compatibility rules an override
// must satisfy: it may not narrow visibility, and its mutability may only
// narrow (e.g. view overriding payable), never widen.
//
// Matching is by name and parameter-type signature, independent of the
// parser's `override`/`virtual` keyword bookkeeping — see the Open
// Question note in the grounding ledger for why: a function need not
// spell `override` explicitly for the resolver to still need the
// consistent, most-derived binding the linearisation implies.
func CheckOverrides(ns *Namespace) {
	for _, c := range ns.Contracts {
		for _, fn := range c.Functions {
			if fn.Kind != syntax.KindFunction {
				// Constructors, fallback, receive and modifiers don't
				// participate in signature-based override resolution.
				continue
			}
			checkFunctionOverride(ns, c, fn)
		}
	}
}

func checkFunctionOverride(ns *Namespace, c *Contract, fn *Function) {
	if fn.Name == "" {
		return
	}
	for i := 1; i < len(c.Linearisation); i++ {
		ancestorIdx := c.Linearisation[i]
		ancestor := ns.Contracts[ancestorIdx]
		for _, af := range ancestor.Functions {
			if af.Name != fn.Name || !signaturesEqual(fn.Params, af.Params) {
				continue
			}
			fn.OverridesFrom = append(fn.OverridesFrom, ancestorIdx)

			if !fn.Visibility.MoreOrEquallyPermissive(af.Visibility) {
				ns.Bus.Errorf(diag.ErrVisibilityNarrows, fn.Pos,
					"function '"+fn.Name+"' narrows the visibility of the function it overrides in '"+ancestor.Name+"'")
			}
			if mutabilityRank(fn.Mutability) > mutabilityRank(af.Mutability) {
				ns.Bus.Errorf(diag.ErrMutabilityWidens, fn.Pos,
					"function '"+fn.Name+"' widens the mutability of the function it overrides in '"+ancestor.Name+"'")
			}
		}
	}
}

// signaturesEqual compares two parameter lists by type only; names and
// data-location annotations don't participate in Solidity's selector.
func signaturesEqual(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !paramTypeEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func paramTypeEqual(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func mutabilityRank(m types.Mutability) int {
	switch m {
	case types.Pure:
		return 0
	case types.View:
		return 1
	case types.Nonpayable:
		return 2
	case types.Payable:
		return 3
	default:
		return 0
	}
}
