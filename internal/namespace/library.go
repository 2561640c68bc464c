package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// CheckLibraryConstraints enforces spec.md §4.1's library rules: "no
// constructor, no receive, no fallback, no payable function, no virtual/
// override, no base contracts, no use as a base of a contract." The last
// rule (rejecting a library as another contract's base, and rejecting a
// library that itself declares bases) is checked across every contract in
// ns, since it's a property of the reference, not of the library alone.
func CheckLibraryConstraints(ns *Namespace) {
	for _, c := range ns.Contracts {
		if c.Kind != syntax.KindLibrary {
			continue
		}
		if len(c.Bases) > 0 {
			ns.Bus.Errorf(diag.ErrLibraryHasBaseContract, c.Pos,
				"library '"+c.Name+"' may not declare base contracts")
		}
		for _, f := range c.Functions {
			switch f.Kind {
			case syntax.KindConstructor:
				ns.Bus.Errorf(diag.ErrConstructorInLibrary, f.Pos,
					"library '"+c.Name+"' may not declare a constructor")
			case syntax.KindReceive:
				ns.Bus.Errorf(diag.ErrConstructorInLibrary, f.Pos,
					"library '"+c.Name+"' may not declare a receive function")
			case syntax.KindFallback:
				ns.Bus.Errorf(diag.ErrConstructorInLibrary, f.Pos,
					"library '"+c.Name+"' may not declare a fallback function")
			}
			if f.Mutability == types.Payable {
				ns.Bus.Errorf(diag.ErrPayableInLibrary, f.Pos,
					"library '"+c.Name+"' may not declare a payable function")
			}
			if f.Virtual || len(f.OverridesFrom) > 0 {
				ns.Bus.Errorf(diag.ErrConstructorInLibrary, f.Pos,
					"library '"+c.Name+"' functions may not be virtual or override")
			}
		}
	}

	for _, c := range ns.Contracts {
		for _, baseIdx := range c.Bases {
			if ns.Contracts[baseIdx].Kind == syntax.KindLibrary {
				ns.Bus.Errorf(diag.ErrLibraryAsBaseContract, c.Pos,
					"contract '"+c.Name+"' may not use library '"+ns.Contracts[baseIdx].Name+"' as a base contract")
			}
		}
	}
}
