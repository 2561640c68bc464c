package resolve

import (
	"math/big"

	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// Conversion records how an expression's natural type was reconciled with
// the type its context requires. The resolved tree always surfaces this
// explicitly (spec.md §4.2: "which is always made visible as a Cast
// expression node") — internal/cfg reads these annotations back out when
// lowering and emits its own Cast instruction for every non-trivial entry.
type Conversion struct {
	From, To types.Type
	Checked  bool
	// AlreadyExplicit is true when the source already spelled this as a
	// syntax.CastExpr; false when the resolver performed an allowed
	// implicit conversion silently.
	AlreadyExplicit bool
}

// reconcile checks whether expr, of type `from`, may be used where `to` is
// required. Implicit conversions succeed silently (returning a Conversion
// so the CFG builder still sees an explicit cast node); explicit-cast-
// required conversions succeed only if sawExplicitCast is true (the
// resolver was called while unwrapping a syntax.CastExpr); otherwise an
// illegal-conversion diagnostic is reported.
//
// When expr is itself an integer literal and to is an integer type, width/
// signedness classification is bypassed in favor of a literal-range check
// (spec.md §8: "integer literals exactly at 2^N-1 for the declared width
// accepted; 2^N rejected") — Solidity literals convert to any type wide
// enough to hold their exact value without needing an explicit cast.
func (r *FunctionResolver) reconcile(pos diag.Span, expr syntax.Expr, from, to types.Type, sawExplicitCast, checked bool) *Conversion {
	if from == nil || to == nil {
		return nil
	}
	if lit, toInt, ok := literalAndIntTarget(expr, to); ok {
		if !literalFitsInt(lit, toInt) {
			r.ns.Bus.Errorf(diag.ErrLiteralOutOfRange, pos,
				"literal "+lit.Text+" does not fit in type '"+to.String()+"'")
			return nil
		}
		if from.Equal(to) {
			return nil
		}
		return &Conversion{From: from, To: to, Checked: checked}
	}
	if from.Equal(to) {
		return nil
	}
	switch types.Classify(from, to) {
	case types.Implicit:
		return &Conversion{From: from, To: to, Checked: checked}
	case types.RequiresExplicitCast:
		if !sawExplicitCast {
			r.ns.Bus.Errorf(diag.ErrIllegalConversion, pos,
				"implicit conversion from '"+from.String()+"' to '"+to.String()+"' is not allowed; an explicit cast is required")
			return nil
		}
		return &Conversion{From: from, To: to, Checked: checked, AlreadyExplicit: true}
	default:
		r.ns.Bus.Errorf(diag.ErrIllegalConversion, pos,
			"cannot convert '"+from.String()+"' to '"+to.String()+"'")
		return nil
	}
}

// literalAndIntTarget reports whether expr is a bare integer literal being
// reconciled against an integer target type.
func literalAndIntTarget(expr syntax.Expr, to types.Type) (*syntax.Literal, types.Int, bool) {
	lit, ok := expr.(*syntax.Literal)
	if !ok || lit.Kind != syntax.LiteralInt {
		return nil, types.Int{}, false
	}
	ti, ok := to.(types.Int)
	if !ok {
		return nil, types.Int{}, false
	}
	return lit, ti, true
}

// literalFitsInt reports whether lit's exact value is representable in t.
func literalFitsInt(lit *syntax.Literal, t types.Int) bool {
	v, ok := new(big.Int).SetString(lit.Text, 10)
	if !ok || t.Bits <= 0 {
		return true
	}
	if !t.Signed {
		if v.Sign() < 0 {
			return false
		}
		max := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits))
		return v.Cmp(max) < 0
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
	min := new(big.Int).Neg(half)
	max := new(big.Int).Sub(half, big.NewInt(1))
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// arithmeticType resolves the result type of a binary arithmetic operator,
// reporting width/signedness diagnostics per spec.md §4.2: "pick the wider
// of the two operand widths; result width equals that maximum; signedness
// must match (mixed signs require explicit cast)."
func (r *FunctionResolver) arithmeticType(pos diag.Span, lhs, rhs types.Type) types.Type {
	li, lok := lhs.(types.Int)
	ri, rok := rhs.(types.Int)
	if !lok || !rok {
		r.ns.Bus.Errorf(diag.ErrWidthMismatch, pos, "arithmetic requires integer operands")
		return types.Int{Bits: 256, Signed: false}
	}
	result, ok := types.ArithmeticResult(li, ri)
	if !ok {
		r.ns.Bus.Errorf(diag.ErrSignednessMismatch, pos,
			"mixed-sign arithmetic between '"+lhs.String()+"' and '"+rhs.String()+"' requires an explicit cast")
		return li
	}
	return result
}

// isExplicitCast reports whether e is a user-written syntax.CastExpr and,
// if so, returns its operand. A `Type(value)` call is not recognised as a
// cast here.
func isExplicitCast(e syntax.Expr) (syntax.Expr, bool) {
	switch v := e.(type) {
	case *syntax.CastExpr:
		return v.Operand, true
	}
	return nil, false
}
