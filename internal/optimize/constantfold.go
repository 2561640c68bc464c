package optimize

import (
	"math/big"

	"solcore/internal/cfg"
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// ConstantFolding evaluates pure expressions whose operands are all literal
// constants, wrapping the result to the destination's declared integer
// width when one is known (spec.md §4.5 pass 1). When no destination width
// is known — the expression sits inside a call argument, an emit, a revert
// message — it falls back to a 256-bit unsigned word, the widest primitive
// this target family ever uses, which only ever under-wraps a result that
// a later pass sees truncated again at its real destination.
//
// Bus, when set, receives an overflow diagnostic for any fold that would
// silently wrap a checked-mode expression (BinaryExpr/UnaryExpr.Unchecked
// false, internal/resolve's default) rather than completing the fold —
// spec.md §4.5 pass 1: "Integer overflow in folded expressions is an error
// when the function is built in checked mode." Nil in tests that construct
// a bare CFG and never hit an overflowing literal.
type ConstantFolding struct {
	Bus *diag.Bus
}

func (*ConstantFolding) Name() string { return "constant folding" }

func (p *ConstantFolding) Apply(f *cfg.Function) bool {
	changed := false
	for _, blk := range f.Blocks {
		for _, instr := range blk.Instructions {
			hint := destHint(f, instr)
			visitInstrExprs(instr, func(e syntax.Expr) syntax.Expr {
				folded, did := foldExpr(e, hint, p.Bus)
				if did {
					changed = true
				}
				return folded
			})
		}
		if blk.Terminator != nil {
			visitTermExprs(blk.Terminator, func(e syntax.Expr) syntax.Expr {
				folded, did := foldExpr(e, nil, p.Bus)
				if did {
					changed = true
				}
				return folded
			})
		}
	}
	return changed
}

// destHint returns the declared integer type of instr's destination local,
// when it has one and it is an integer, so folding can wrap to the right
// width instead of guessing.
func destHint(f *cfg.Function, instr cfg.Instruction) *types.Int {
	sl, ok := instr.(*cfg.SetLocal)
	if !ok {
		return nil
	}
	it, ok := unqualifyForFold(f.Var(sl.Dst).Type).(types.Int)
	if !ok {
		return nil
	}
	return &it
}

func unqualifyForFold(t types.Type) types.Type {
	if q, ok := t.(types.Qualified); ok {
		return q.Inner
	}
	return t
}

// foldExpr rewrites e bottom-up, replacing any subtree whose operands are
// all now literal constants with a single computed literal. It returns the
// (possibly unchanged) expression and whether anything changed anywhere in
// the tree.
func foldExpr(e syntax.Expr, hint *types.Int, bus *diag.Bus) (syntax.Expr, bool) {
	switch v := e.(type) {
	case *syntax.BinaryExpr:
		left, lc := foldExpr(v.Left, hint, bus)
		right, rc := foldExpr(v.Right, hint, bus)
		v.Left, v.Right = left, right
		changed := lc || rc

		if ll, ok := left.(*syntax.Literal); ok && ll.Kind == syntax.LiteralInt {
			if rl, ok := right.(*syntax.Literal); ok && rl.Kind == syntax.LiteralInt {
				if folded, ok := evalBinaryInt(v.Op, ll.Text, rl.Text, hint, !v.Unchecked, v.Span(), bus); ok {
					return folded, true
				}
			}
		}
		if lb, ok := left.(*syntax.Literal); ok && lb.Kind == syntax.LiteralBool {
			if rb, ok := right.(*syntax.Literal); ok && rb.Kind == syntax.LiteralBool {
				if folded, ok := evalBinaryBool(v.Op, lb.Text, rb.Text); ok {
					return folded, true
				}
			}
		}
		return v, changed

	case *syntax.UnaryExpr:
		operand, oc := foldExpr(v.Operand, hint, bus)
		v.Operand = operand
		if lit, ok := operand.(*syntax.Literal); ok {
			if folded, ok := evalUnary(v.Op, lit, hint, !v.Unchecked, v.Span(), bus); ok {
				return folded, true
			}
		}
		return v, oc

	case *syntax.CastExpr:
		operand, oc := foldExpr(v.Operand, hint, bus)
		v.Operand = operand
		return v, oc

	default:
		return e, false
	}
}

func evalBinaryBool(op syntax.BinaryOp, l, r string) (*syntax.Literal, bool) {
	lb, rb := l == "true", r == "true"
	var result bool
	switch op {
	case syntax.OpAnd:
		result = lb && rb
	case syntax.OpOr:
		result = lb || rb
	case syntax.OpEq:
		result = lb == rb
	case syntax.OpNotEq:
		result = lb != rb
	default:
		return nil, false
	}
	return boolLiteral(result), true
}

func evalBinaryInt(op syntax.BinaryOp, l, r string, hint *types.Int, checked bool, pos diag.Span, bus *diag.Bus) (*syntax.Literal, bool) {
	lv, ok := new(big.Int).SetString(l, 10)
	if !ok {
		return nil, false
	}
	rv, ok := new(big.Int).SetString(r, 10)
	if !ok {
		return nil, false
	}

	switch op {
	case syntax.OpEq, syntax.OpNotEq, syntax.OpLt, syntax.OpLte, syntax.OpGt, syntax.OpGte:
		cmp := lv.Cmp(rv)
		var result bool
		switch op {
		case syntax.OpEq:
			result = cmp == 0
		case syntax.OpNotEq:
			result = cmp != 0
		case syntax.OpLt:
			result = cmp < 0
		case syntax.OpLte:
			result = cmp <= 0
		case syntax.OpGt:
			result = cmp > 0
		case syntax.OpGte:
			result = cmp >= 0
		}
		return boolLiteral(result), true
	}

	result := new(big.Int)
	switch op {
	case syntax.OpAdd:
		result.Add(lv, rv)
	case syntax.OpSub:
		result.Sub(lv, rv)
	case syntax.OpMul:
		result.Mul(lv, rv)
	case syntax.OpDiv:
		if rv.Sign() == 0 {
			return nil, false
		}
		result.Quo(lv, rv) // truncation toward zero, matching Solidity's signed division
	case syntax.OpMod:
		if rv.Sign() == 0 {
			return nil, false
		}
		result.Rem(lv, rv)
	case syntax.OpExp:
		if rv.Sign() < 0 {
			return nil, false
		}
		result.Exp(lv, rv, nil)
	case syntax.OpBitAnd:
		result.And(lv, rv)
	case syntax.OpBitOr:
		result.Or(lv, rv)
	case syntax.OpBitXor:
		result.Xor(lv, rv)
	case syntax.OpShl:
		if !rv.IsUint64() {
			return nil, false
		}
		result.Lsh(lv, uint(rv.Uint64()))
	case syntax.OpShr:
		if !rv.IsUint64() {
			return nil, false
		}
		result.Rsh(lv, uint(rv.Uint64()))
	default:
		return nil, false
	}

	wrapped, ok := checkedFold(bus, pos, result, hint, checked)
	if !ok {
		return nil, false
	}
	return intLiteral(wrapped), true
}

func evalUnary(op syntax.UnaryOp, lit *syntax.Literal, hint *types.Int, checked bool, pos diag.Span, bus *diag.Bus) (*syntax.Literal, bool) {
	switch op {
	case syntax.OpNeg:
		if lit.Kind != syntax.LiteralInt {
			return nil, false
		}
		v, ok := new(big.Int).SetString(lit.Text, 10)
		if !ok {
			return nil, false
		}
		wrapped, ok := checkedFold(bus, pos, new(big.Int).Neg(v), hint, checked)
		if !ok {
			return nil, false
		}
		return intLiteral(wrapped), true
	case syntax.OpNot:
		if lit.Kind != syntax.LiteralBool {
			return nil, false
		}
		return boolLiteral(lit.Text != "true"), true
	case syntax.OpBitNot:
		if lit.Kind != syntax.LiteralInt {
			return nil, false
		}
		v, ok := new(big.Int).SetString(lit.Text, 10)
		if !ok {
			return nil, false
		}
		wrapped, ok := checkedFold(bus, pos, new(big.Int).Not(v), hint, checked)
		if !ok {
			return nil, false
		}
		return intLiteral(wrapped), true
	default:
		return nil, false
	}
}

// checkedFold wraps v into hint's representable range (defaulting to an
// unsigned 256-bit word when hint is nil). In unchecked mode this always
// succeeds, matching Solidity's unchecked-block wrapping semantics. In
// checked mode, a v that doesn't already fit is a compile-time-detectable
// overflow (spec.md §4.5 pass 1) — checkedFold reports it and refuses to
// fold, leaving the original expression in place for whatever diagnostic
// reporting the rest of resolution does, rather than silently handing
// later passes a wrapped value the source never asked for.
func checkedFold(bus *diag.Bus, pos diag.Span, v *big.Int, hint *types.Int, checked bool) (*big.Int, bool) {
	wrapped := wrap(v, hint)
	if checked && wrapped.Cmp(v) != 0 {
		if bus != nil {
			bus.Errorf(diag.ErrIntegerOverflow, pos, "arithmetic overflow evaluating constant expression")
		}
		return nil, false
	}
	return wrapped, true
}

// wrap reduces v into the representable range of hint (defaulting to an
// unsigned 256-bit word when hint is nil).
func wrap(v *big.Int, hint *types.Int) *big.Int {
	bits, signed := 256, false
	if hint != nil && hint.Bits > 0 {
		bits, signed = hint.Bits, hint.Signed
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	if signed {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}
	return r
}

func intLiteral(v *big.Int) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LiteralInt, Text: v.String()}
}

func boolLiteral(b bool) *syntax.Literal {
	text := "false"
	if b {
		text = "true"
	}
	return &syntax.Literal{Kind: syntax.LiteralBool, Text: text}
}
