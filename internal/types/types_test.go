package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntValidWidth(t *testing.T) {
	require.True(t, Int{Bits: 8, Signed: false}.Valid())
	require.True(t, Int{Bits: 256, Signed: true}.Valid())
	require.False(t, Int{Bits: 7, Signed: false}.Valid())
	require.False(t, Int{Bits: 264, Signed: false}.Valid())
}

func TestArrayEquality(t *testing.T) {
	a := Array{Element: Int{Bits: 256, Signed: false}, Length: -1}
	b := Array{Element: Int{Bits: 256, Signed: false}, Length: -1}
	c := Array{Element: Int{Bits: 256, Signed: false}, Length: 4}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestOnlyValidInStorage(t *testing.T) {
	m := Mapping{Key: Address{}, Value: Int{Bits: 256}}
	require.True(t, OnlyValidInStorage(m))
	require.True(t, OnlyValidInStorage(Array{Element: m, Length: -1}))
	require.False(t, OnlyValidInStorage(Int{Bits: 256, Signed: false}))
}

func TestMutabilityAtLeast(t *testing.T) {
	require.True(t, View.AtLeast(Pure))
	require.False(t, Pure.AtLeast(View))
	require.True(t, Nonpayable.AtLeast(View))
	require.True(t, Payable.AtLeast(Nonpayable))
}

func TestVisibilityMoreOrEquallyPermissive(t *testing.T) {
	require.True(t, Public.MoreOrEquallyPermissive(External))
	require.True(t, Public.MoreOrEquallyPermissive(Internal))
	require.False(t, Internal.MoreOrEquallyPermissive(Public))
	require.True(t, External.MoreOrEquallyPermissive(Internal))
}
