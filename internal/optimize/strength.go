package optimize

import (
	"math/big"

	"solcore/internal/cfg"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// StrengthReduction rewrites arithmetic into cheaper equivalent forms:
// multiplication/division by a power of two becomes a shift, and the
// standard identity/annihilator pairs collapse away (spec.md §4.5 pass 2).
// Division-by-shift is only applied when the destination width is known and
// unsigned, since an arithmetic right shift rounds toward negative infinity
// where Solidity's signed division truncates toward zero.
type StrengthReduction struct{}

func (*StrengthReduction) Name() string { return "strength reduction" }

func (p *StrengthReduction) Apply(f *cfg.Function) bool {
	changed := false
	for _, blk := range f.Blocks {
		for _, instr := range blk.Instructions {
			hint := destHint(f, instr)
			visitInstrExprs(instr, func(e syntax.Expr) syntax.Expr {
				reduced, did := reduceExpr(e, hint)
				if did {
					changed = true
				}
				return reduced
			})
		}
		if blk.Terminator != nil {
			visitTermExprs(blk.Terminator, func(e syntax.Expr) syntax.Expr {
				reduced, did := reduceExpr(e, nil)
				if did {
					changed = true
				}
				return reduced
			})
		}
	}
	return changed
}

// reduceExpr recurses bottom-up, applying the rewrite rules to every
// BinaryExpr node once its own children have already been reduced.
func reduceExpr(e syntax.Expr, hint *types.Int) (syntax.Expr, bool) {
	bin, ok := e.(*syntax.BinaryExpr)
	if !ok {
		return e, false
	}
	left, lc := reduceExpr(bin.Left, hint)
	right, rc := reduceExpr(bin.Right, hint)
	bin.Left, bin.Right = left, right
	changed := lc || rc

	if rewritten, ok := applyIdentity(bin); ok {
		return rewritten, true
	}
	if rewritten, ok := applyShift(bin, hint); ok {
		return rewritten, true
	}
	return bin, changed
}

// applyIdentity handles x*1→x, x+0→x, x-0→x, x&0→0, x^x→0 and the
// commutative duals, plus x&x→x/x|x→x.
func applyIdentity(bin *syntax.BinaryExpr) (syntax.Expr, bool) {
	switch bin.Op {
	case syntax.OpMul:
		if isIntLiteral(bin.Right, 1) {
			return bin.Left, true
		}
		if isIntLiteral(bin.Left, 1) {
			return bin.Right, true
		}
		if isIntLiteral(bin.Right, 0) || isIntLiteral(bin.Left, 0) {
			return intLiteral(big.NewInt(0)), true
		}
	case syntax.OpAdd:
		if isIntLiteral(bin.Right, 0) {
			return bin.Left, true
		}
		if isIntLiteral(bin.Left, 0) {
			return bin.Right, true
		}
	case syntax.OpSub:
		if isIntLiteral(bin.Right, 0) {
			return bin.Left, true
		}
		if exprEqual(bin.Left, bin.Right) {
			return intLiteral(big.NewInt(0)), true
		}
	case syntax.OpBitAnd:
		if isIntLiteral(bin.Right, 0) || isIntLiteral(bin.Left, 0) {
			return intLiteral(big.NewInt(0)), true
		}
		if exprEqual(bin.Left, bin.Right) {
			return bin.Left, true
		}
	case syntax.OpBitOr:
		if exprEqual(bin.Left, bin.Right) {
			return bin.Left, true
		}
	case syntax.OpBitXor:
		if exprEqual(bin.Left, bin.Right) {
			return intLiteral(big.NewInt(0)), true
		}
	}
	return nil, false
}

// applyShift turns x*2^k and (when hint proves the value unsigned) x/2^k
// into shifts.
func applyShift(bin *syntax.BinaryExpr, hint *types.Int) (syntax.Expr, bool) {
	switch bin.Op {
	case syntax.OpMul:
		if k, ok := literalPowerOfTwo(bin.Right); ok {
			return &syntax.BinaryExpr{Op: syntax.OpShl, Left: bin.Left, Right: intLiteral(big.NewInt(int64(k)))}, true
		}
		if k, ok := literalPowerOfTwo(bin.Left); ok {
			return &syntax.BinaryExpr{Op: syntax.OpShl, Left: bin.Right, Right: intLiteral(big.NewInt(int64(k)))}, true
		}
	case syntax.OpDiv:
		if hint == nil || hint.Signed {
			return nil, false
		}
		if k, ok := literalPowerOfTwo(bin.Right); ok {
			return &syntax.BinaryExpr{Op: syntax.OpShr, Left: bin.Left, Right: intLiteral(big.NewInt(int64(k)))}, true
		}
	}
	return nil, false
}

func isIntLiteral(e syntax.Expr, n int64) bool {
	lit, ok := e.(*syntax.Literal)
	if !ok || lit.Kind != syntax.LiteralInt {
		return false
	}
	v, ok := new(big.Int).SetString(lit.Text, 10)
	return ok && v.Cmp(big.NewInt(n)) == 0
}

// literalPowerOfTwo reports (log2(v), true) when e is an integer literal
// equal to a power of two greater than one.
func literalPowerOfTwo(e syntax.Expr) (int, bool) {
	lit, ok := e.(*syntax.Literal)
	if !ok || lit.Kind != syntax.LiteralInt {
		return 0, false
	}
	v, ok := new(big.Int).SetString(lit.Text, 10)
	if !ok || v.Sign() <= 0 {
		return 0, false
	}
	one := big.NewInt(1)
	if v.Cmp(one) == 0 {
		return 0, false
	}
	shift := 0
	rem := new(big.Int).Set(v)
	two := big.NewInt(2)
	for rem.Cmp(one) > 0 {
		q, m := new(big.Int), new(big.Int)
		q.DivMod(rem, two, m)
		if m.Sign() != 0 {
			return 0, false
		}
		rem = q
		shift++
	}
	return shift, true
}

// exprEqual reports structural equality for the narrow set of shapes these
// passes need to compare: identifiers by name and literals by text.
func exprEqual(a, b syntax.Expr) bool {
	switch av := a.(type) {
	case *syntax.Ident:
		bv, ok := b.(*syntax.Ident)
		return ok && av.Name == bv.Name
	case *syntax.Literal:
		bv, ok := b.(*syntax.Literal)
		return ok && av.Kind == bv.Kind && av.Text == bv.Text
	default:
		return false
	}
}
