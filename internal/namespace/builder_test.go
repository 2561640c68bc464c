package namespace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/syntax"
	"solcore/internal/target"
)

func elem(name string) *syntax.ElementaryTypeName {
	return &syntax.ElementaryTypeName{Name: name}
}

func TestBuildResolvesStructsAndEnums(t *testing.T) {
	unit := &syntax.SourceUnit{
		Filename: "t.sol",
		Structs: []*syntax.StructDecl{
			{Name: "Point", Fields: []syntax.StructFieldDecl{
				{Name: "x", Type: elem("uint256")},
				{Name: "y", Type: elem("uint256")},
			}},
		},
		Enums: []*syntax.EnumDecl{
			{Name: "Color", Members: []syntax.EnumMember{{Name: "Red"}, {Name: "Green"}, {Name: "Blue"}}},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.False(t, ns.Bus.HasErrors())
	require.Len(t, ns.Structs, 1)
	require.Equal(t, "Point", ns.Structs[0].Name)
	require.Len(t, ns.Structs[0].Fields, 2)
	require.Len(t, ns.Enums, 1)
	min, max := EnumOrdinalBounds(ns.Enums[0])
	require.Equal(t, 0, min)
	require.Equal(t, 2, max)
}

func TestBuildRejectsEmptyStruct(t *testing.T) {
	unit := &syntax.SourceUnit{
		Structs: []*syntax.StructDecl{{Name: "Empty"}},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.True(t, ns.Bus.HasErrors())
}

func TestBuildRejectsDuplicateStructField(t *testing.T) {
	unit := &syntax.SourceUnit{
		Structs: []*syntax.StructDecl{
			{Name: "Dup", Fields: []syntax.StructFieldDecl{
				{Name: "x", Type: elem("uint256")},
				{Name: "x", Type: elem("uint256")},
			}},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.True(t, ns.Bus.HasErrors())
}

func TestBuildResolvesContractWithStateVariable(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{
			{
				Name: "Token",
				Kind: syntax.KindContract,
				StateVars: []*syntax.StateVarDecl{
					{Name: "totalSupply", Type: elem("uint256"), Visibility: "public"},
				},
				Functions: []*syntax.FunctionDecl{
					{Name: "mint", Kind: syntax.KindFunction, Mutability: "nonpayable", Visibility: "public"},
				},
			},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.False(t, ns.Bus.HasErrors())
	require.Len(t, ns.Contracts, 1)
	c := ns.Contracts[0]
	require.Equal(t, []int{0}, c.Linearisation)
	require.Len(t, c.StateVars, 1)
	require.Equal(t, 0, c.StateVars[0].Slot)
	require.Len(t, c.Functions, 1)
}
