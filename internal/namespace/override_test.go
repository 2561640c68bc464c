package namespace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

func TestCheckOverridesRecordsAncestor(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{
			{
				Name: "Base",
				Kind: syntax.KindContract,
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "view", Visibility: "public", Virtual: true},
				},
			},
			{
				Name:     "Derived",
				Kind:     syntax.KindContract,
				Inherits: []syntax.InheritanceSpecifier{{Name: "Base"}},
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "pure", Visibility: "public", IsOverride: true},
				},
			},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.False(t, ns.Bus.HasErrors())
	derived := ns.Contracts[1]
	require.Equal(t, []int{0}, derived.Functions[0].OverridesFrom)
}

func TestCheckOverridesRejectsWideningMutability(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{
			{
				Name: "Base",
				Kind: syntax.KindContract,
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "pure", Visibility: "public", Virtual: true},
				},
			},
			{
				Name:     "Derived",
				Kind:     syntax.KindContract,
				Inherits: []syntax.InheritanceSpecifier{{Name: "Base"}},
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "view", Visibility: "public", IsOverride: true},
				},
			},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.True(t, ns.Bus.HasErrors())
}

func TestCheckOverridesRejectsNarrowingVisibility(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{
			{
				Name: "Base",
				Kind: syntax.KindContract,
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "view", Visibility: "public", Virtual: true},
				},
			},
			{
				Name:     "Derived",
				Kind:     syntax.KindContract,
				Inherits: []syntax.InheritanceSpecifier{{Name: "Base"}},
				Functions: []*syntax.FunctionDecl{
					{Name: "greet", Kind: syntax.KindFunction, Mutability: "view", Visibility: "internal", IsOverride: true},
				},
			},
		},
	}

	ns := Build([]*syntax.SourceUnit{unit}, target.NewEVM())

	require.True(t, ns.Bus.HasErrors())
}

func TestMutabilityRankOrdering(t *testing.T) {
	require.True(t, mutabilityRank(types.Pure) < mutabilityRank(types.View))
	require.True(t, mutabilityRank(types.View) < mutabilityRank(types.Nonpayable))
	require.Equal(t, mutabilityRank(types.Nonpayable), mutabilityRank(types.Payable)-1)
}
