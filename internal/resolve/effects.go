package resolve

import (
	"solcore/internal/diag"
	"solcore/internal/types"
)

// observe folds effect into the function's running worst-effect tracker
// and reports a violation at pos — the "most specific sub-expression"
// spec.md §4.2 requires — the first time the declared mutability proves
// insufficient.
func (r *FunctionResolver) observe(effect types.Mutability, pos diag.Span) {
	alreadyInsufficient := !r.fn.Mutability.AtLeast(r.worstEffect)
	if effect > r.worstEffect {
		r.worstEffect = effect
	}
	if r.fn.Mutability.AtLeast(effect) || alreadyInsufficient {
		return
	}
	if effect == types.Payable {
		r.ns.Bus.Errorf(diag.ErrPayableOnlyInNonPayable, pos,
			"'"+r.fn.Name+"' observes msg.value but is not declared payable")
		return
	}
	r.ns.Bus.Errorf(diag.ErrPureWritesStorage, pos,
		"'"+r.fn.Name+"' is declared "+r.fn.Mutability.String()+
			" but performs a "+effect.String()+" operation")
}
