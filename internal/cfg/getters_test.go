package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/target"
)

func findGetter(c *namespace.Contract, name string) *namespace.Function {
	for _, fn := range c.Functions {
		if fn.ImplicitGetter && fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestBuildGetterForScalarStateVariableLoadsOneSlot(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{{
				Name: "total", Type: elem("uint256"), Visibility: "public",
			}},
		}},
	}
	ns := namespace.Build([]*syntax.SourceUnit{unit}, target.NewEVM())
	require.False(t, ns.Bus.HasErrors())
	c := ns.Contracts[0]
	fn := findGetter(c, "total")
	require.NotNil(t, fn)
	require.Empty(t, fn.Params)
	require.Len(t, fn.Returns, 1)

	f := BuildGetter(ns, c, fn)
	require.Len(t, f.Blocks, 1)
	entry := f.Block(f.Entry)
	require.Len(t, entry.Instructions, 1)
	load, ok := entry.Instructions[0].(*LoadStorage)
	require.True(t, ok)
	require.Equal(t, 0, load.Slot)
	ret, ok := entry.Terminator.(*Return)
	require.True(t, ok)
	require.Len(t, ret.Values, 1)
}

func TestBuildGetterForMappingTakesKeyParameter(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{{
				Name: "balances",
				Type: &syntax.MappingTypeName{Key: elem("address"), Value: elem("uint256")},
				Visibility: "public",
			}},
		}},
	}
	ns := namespace.Build([]*syntax.SourceUnit{unit}, target.NewEVM())
	require.False(t, ns.Bus.HasErrors())
	c := ns.Contracts[0]
	fn := findGetter(c, "balances")
	require.NotNil(t, fn)
	require.Len(t, fn.Params, 1)
	require.Len(t, fn.Returns, 1)

	f := BuildGetter(ns, c, fn)
	require.Len(t, f.Vars, 2) // the key param plus the loaded value
	require.True(t, f.Vars[0].Parameter)
	entry := f.Block(f.Entry)
	require.Len(t, entry.Instructions, 1)
	load, ok := entry.Instructions[0].(*LoadStorage)
	require.True(t, ok)
	require.NotNil(t, load.SlotExpr)
}
