package namespace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/target"
	"solcore/internal/types"
)

func TestAssignStorageLayoutPacksSmallFields(t *testing.T) {
	ns := New(target.NewEVM())
	c := newTestContract("Packed")
	c.StateVars = []*StateVariable{
		{Name: "a", Type: types.Int{Bits: 128, Signed: false}},
		{Name: "b", Type: types.Int{Bits: 128, Signed: false}},
		{Name: "c", Type: types.Int{Bits: 8, Signed: false}},
	}

	AssignStorageLayout(ns, c)

	require.Equal(t, 0, c.StateVars[0].Slot)
	require.Equal(t, 0, c.StateVars[0].Offset)
	require.Equal(t, 0, c.StateVars[1].Slot)
	require.Equal(t, 16, c.StateVars[1].Offset)
	require.Equal(t, 1, c.StateVars[2].Slot) // doesn't fit after two 16-byte fields fill the slot
}

func TestAssignStorageLayoutSkipsConstantsAndImmutables(t *testing.T) {
	ns := New(target.NewEVM())
	c := newTestContract("C")
	c.StateVars = []*StateVariable{
		{Name: "K", Type: types.Int{Bits: 256}, Constant: true},
		{Name: "x", Type: types.Int{Bits: 256}},
	}

	AssignStorageLayout(ns, c)

	require.Equal(t, 0, c.StateVars[0].Slot) // unassigned zero-value; never consumes a slot
	require.Equal(t, 0, c.StateVars[1].Slot)
}

func TestMappingAlwaysOwnsItsOwnSlot(t *testing.T) {
	ns := New(target.NewEVM())
	c := newTestContract("M")
	c.StateVars = []*StateVariable{
		{Name: "a", Type: types.Int{Bits: 8}},
		{Name: "m", Type: types.Mapping{Key: types.Address{}, Value: types.Int{Bits: 256}}},
		{Name: "b", Type: types.Int{Bits: 8}},
	}

	AssignStorageLayout(ns, c)

	require.Equal(t, 0, c.StateVars[0].Slot)
	require.Equal(t, 1, c.StateVars[1].Slot)
	require.Equal(t, 2, c.StateVars[2].Slot)
}
