package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/types"
)

func TestSignatureOfRendersCanonicalParamTypes(t *testing.T) {
	sig := SignatureOf("transfer", []types.Type{
		types.Address{},
		types.Int{Bits: 256, Signed: false},
	})
	require.Equal(t, "transfer(address,uint256)", sig)
}

func TestSignatureOfUnwrapsQualifiedAndArrays(t *testing.T) {
	sig := SignatureOf("batch", []types.Type{
		types.Qualified{Inner: types.Array{Element: types.Int{Bits: 256}, Length: -1}, Location: types.Memory},
		types.Array{Element: types.Address{}, Length: 3},
	})
	require.Equal(t, "batch(uint256[],address[3])", sig)
}

func TestSelectorMatchesKnownERC20TransferSelector(t *testing.T) {
	sel := Selector32("transfer", []types.Type{
		types.Address{},
		types.Int{Bits: 256, Signed: false},
	})
	require.Equal(t, uint32(0xa9059cbb), sel)
}

func TestEventTopicIsFullWidth(t *testing.T) {
	topic := EventTopic("Transfer", []types.Type{
		types.Address{},
		types.Address{},
		types.Int{Bits: 256, Signed: false},
	})
	require.Len(t, topic, 32)
}

func TestSelectorIsStableAcrossCalls(t *testing.T) {
	params := []types.Type{types.Int{Bits: 256, Signed: false}}
	a := Selector32("mint", params)
	b := Selector32("mint", params)
	require.Equal(t, a, b)
}

func TestParseSignatureRoundTripsSimpleSignature(t *testing.T) {
	sig, err := ParseSignature("transfer(address,uint256)")
	require.NoError(t, err)
	require.Equal(t, "transfer", sig.Name)
	require.Len(t, sig.Params, 2)
	require.Equal(t, "transfer(address,uint256)", sig.String())
}

func TestParseSignatureRoundTripsArraySuffix(t *testing.T) {
	sig, err := ParseSignature("batch(uint256[])")
	require.NoError(t, err)
	require.Len(t, sig.Params, 1)
	require.Equal(t, "uint256[]", sig.Params[0].String())
}

func TestParseSignatureRejectsMalformedInput(t *testing.T) {
	_, err := ParseSignature("not a signature")
	require.Error(t, err)
}
