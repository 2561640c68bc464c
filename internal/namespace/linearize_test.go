package namespace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/target"
)

func newTestContract(name string, bases ...int) *Contract {
	return &Contract{Name: name, Bases: bases, Scope: NewSymbolTable(nil), Initializer: -1}
}

func TestLineariseDiamond(t *testing.T) {
	ns := New(target.NewEVM())
	// D(B, C), B(A), C(A), A
	a := newTestContract("A")
	b := newTestContract("B", 0)
	c := newTestContract("C", 0)
	d := newTestContract("D", 1, 2)
	ns.Contracts = []*Contract{a, b, c, d}
	for i, ct := range ns.Contracts {
		ct.Index = i
	}

	Linearise(ns)

	require.Equal(t, []int{3, 1, 2, 0}, d.Linearisation)
	require.False(t, ns.Bus.HasErrors())
}

func TestLineariseCycleReportsError(t *testing.T) {
	ns := New(target.NewEVM())
	a := newTestContract("A", 1)
	b := newTestContract("B", 0)
	ns.Contracts = []*Contract{a, b}
	for i, ct := range ns.Contracts {
		ct.Index = i
	}

	Linearise(ns)

	require.True(t, ns.Bus.HasErrors())
}
