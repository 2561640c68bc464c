package optimize

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/cfg"
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

func lit(n int64) *syntax.Literal {
	return intLiteral(big.NewInt(n))
}

func TestConstantFoldingEvaluatesLiteralArithmetic(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{{ID: 0, Name: "x", Type: types.Int{Bits: 256}}},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: &syntax.BinaryExpr{Op: syntax.OpAdd, Left: lit(2), Right: lit(3)}},
			},
			Terminator: &cfg.Return{Values: []syntax.Expr{&syntax.Ident{Name: "x"}}},
		}},
		Entry: 0,
	}

	changed := (&ConstantFolding{}).Apply(f)
	require.True(t, changed)
	sl := f.Blocks[0].Instructions[0].(*cfg.SetLocal)
	result, ok := sl.Value.(*syntax.Literal)
	require.True(t, ok)
	require.Equal(t, "5", result.Text)
}

func TestStrengthReductionRewritesMultiplyByPowerOfTwoAsShift(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{{ID: 0, Name: "x", Type: types.Int{Bits: 256}}},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: &syntax.BinaryExpr{Op: syntax.OpMul, Left: &syntax.Ident{Name: "y"}, Right: lit(8)}},
			},
			Terminator: &cfg.Return{},
		}},
		Entry: 0,
	}

	changed := (&StrengthReduction{}).Apply(f)
	require.True(t, changed)
	sl := f.Blocks[0].Instructions[0].(*cfg.SetLocal)
	bin, ok := sl.Value.(*syntax.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, syntax.OpShl, bin.Op)
	require.Equal(t, "3", bin.Right.(*syntax.Literal).Text)
}

func TestCSEReplacesSecondIdenticalComputationWithFirstsResult(t *testing.T) {
	expr := func() syntax.Expr {
		return &syntax.BinaryExpr{Op: syntax.OpAdd, Left: &syntax.Ident{Name: "a"}, Right: &syntax.Ident{Name: "b"}}
	}
	f := &cfg.Function{
		Vars: []*cfg.Var{
			{ID: 0, Name: "t0", Type: types.Int{Bits: 256}},
			{ID: 1, Name: "t1", Type: types.Int{Bits: 256}},
		},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: expr()},
				&cfg.SetLocal{Dst: 1, Value: expr()},
			},
			Terminator: &cfg.Return{Values: []syntax.Expr{&syntax.Ident{Name: "t1"}}},
		}},
		Entry: 0,
	}

	changed := (&CSE{}).Apply(f)
	require.True(t, changed)
	require.Len(t, f.Blocks[0].Instructions, 1)
	ret := f.Blocks[0].Terminator.(*cfg.Return)
	require.Equal(t, "t0", ret.Values[0].(*syntax.Ident).Name)
}

func TestUnusedVariableEliminationDropsDeadPureAssignment(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{{ID: 0, Name: "dead", Type: types.Int{Bits: 256}}},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: lit(1)},
			},
			Terminator: &cfg.Return{},
		}},
		Entry: 0,
	}

	changed := (&UnusedVariableElimination{}).Apply(f)
	require.True(t, changed)
	require.Empty(t, f.Blocks[0].Instructions)
}

func TestDeadStorageEliminationDropsOverwrittenWriteBeforeAnyRead(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetStorage{Slot: 0, Value: lit(1)},
				&cfg.SetStorage{Slot: 0, Value: lit(2)},
			},
			Terminator: &cfg.Return{},
		}},
		Entry: 0,
	}

	changed := (&DeadStorageElimination{}).Apply(f)
	require.True(t, changed)
	require.Len(t, f.Blocks[0].Instructions, 1)
	st := f.Blocks[0].Instructions[0].(*cfg.SetStorage)
	require.Equal(t, "2", st.Value.(*syntax.Literal).Text)
}

func TestPipelineRunsOnlyEnabledPasses(t *testing.T) {
	opts := target.DefaultOptions(target.NewEVM())
	opts.StrengthReduce = false
	pipeline := New(opts, diag.NewBus())
	for _, pass := range pipeline.passes {
		require.NotEqual(t, "strength reduction", pass.Name())
	}
}

func TestConstantFoldingTrapsCheckedModeOverflow(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{{ID: 0, Name: "x", Type: types.Int{Bits: 8}}},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: &syntax.BinaryExpr{Op: syntax.OpAdd, Left: lit(250), Right: lit(10)}},
			},
			Terminator: &cfg.Return{Values: []syntax.Expr{&syntax.Ident{Name: "x"}}},
		}},
		Entry: 0,
	}

	bus := diag.NewBus()
	changed := (&ConstantFolding{Bus: bus}).Apply(f)
	require.False(t, changed)
	require.True(t, bus.HasErrors())
	sl := f.Blocks[0].Instructions[0].(*cfg.SetLocal)
	_, stillBinary := sl.Value.(*syntax.BinaryExpr)
	require.True(t, stillBinary)
}

func TestConstantFoldingWrapsUncheckedModeOverflow(t *testing.T) {
	f := &cfg.Function{
		Vars: []*cfg.Var{{ID: 0, Name: "x", Type: types.Int{Bits: 8}}},
		Blocks: []*cfg.Block{{
			ID: 0,
			Instructions: []cfg.Instruction{
				&cfg.SetLocal{Dst: 0, Value: &syntax.BinaryExpr{Op: syntax.OpAdd, Left: lit(250), Right: lit(10), Unchecked: true}},
			},
			Terminator: &cfg.Return{Values: []syntax.Expr{&syntax.Ident{Name: "x"}}},
		}},
		Entry: 0,
	}

	bus := diag.NewBus()
	changed := (&ConstantFolding{Bus: bus}).Apply(f)
	require.True(t, changed)
	require.False(t, bus.HasErrors())
	sl := f.Blocks[0].Instructions[0].(*cfg.SetLocal)
	result, ok := sl.Value.(*syntax.Literal)
	require.True(t, ok)
	require.Equal(t, "4", result.Text)
}
