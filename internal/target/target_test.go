package target

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorWidthIsFourExceptOnBPF(t *testing.T) {
	require.Equal(t, 4, NewEVM().SelectorWidth())
	require.Equal(t, 4, NewStylus().SelectorWidth())
	require.Equal(t, 4, NewSoroban().SelectorWidth())
	require.Equal(t, 4, NewWasmContract(0, 0).SelectorWidth())
	require.Equal(t, 32, NewBPF().SelectorWidth())
}

func TestNewWasmContractFallsBackToEVMWidthsWhenUnset(t *testing.T) {
	d := NewWasmContract(0, 0)
	require.Equal(t, 20, d.AddressLength)
	require.Equal(t, 32, d.ValueLength)
}

func TestNewWasmContractHonorsExplicitWidths(t *testing.T) {
	d := NewWasmContract(32, 16)
	require.Equal(t, 32, d.AddressLength)
	require.Equal(t, 16, d.ValueLength)
}

func TestDefaultOptionsEnablesEveryPassExceptVectorToSlice(t *testing.T) {
	opts := DefaultOptions(NewEVM())
	require.True(t, opts.ConstantFolding)
	require.True(t, opts.StrengthReduce)
	require.True(t, opts.DeadStorage)
	require.True(t, opts.CommonSubexpressionElimination)
	require.True(t, opts.UnusedVariableElimination)
	require.False(t, opts.VectorToSlice)
	require.True(t, opts.GenerateDebugInfo)
}

func TestAggressiveOptLevelEnablesVectorToSlice(t *testing.T) {
	opts := Options{Target: NewEVM(), OptLevel: OptAggressive}
	opts.applyLevel()
	require.True(t, opts.VectorToSlice)
}

func TestNoneOptLevelDisablesEveryPass(t *testing.T) {
	opts := Options{Target: NewEVM(), OptLevel: OptNone}
	opts.applyLevel()
	require.False(t, opts.ConstantFolding)
	require.False(t, opts.StrengthReduce)
	require.False(t, opts.DeadStorage)
	require.False(t, opts.CommonSubexpressionElimination)
	require.False(t, opts.VectorToSlice)
	require.False(t, opts.UnusedVariableElimination)
}

func TestReleaseDisablesDebugMetadata(t *testing.T) {
	opts := Options{Target: NewEVM(), OptLevel: OptDefault, Release: true, GenerateDebugInfo: true, LogPrints: true, LogRuntimeErrors: true}
	opts.applyLevel()
	require.False(t, opts.GenerateDebugInfo)
	require.False(t, opts.LogPrints)
	require.False(t, opts.LogRuntimeErrors)
}
