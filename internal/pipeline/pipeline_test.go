package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/syntax"
	"solcore/internal/target"
)

func elem(name string) *syntax.ElementaryTypeName {
	return &syntax.ElementaryTypeName{Name: name}
}

func ident(name string) *syntax.Ident {
	return &syntax.Ident{Name: name}
}

func lit(text string) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LiteralInt, Text: text}
}

func oneFunctionUnit(contractName, fnName string) *syntax.SourceUnit {
	return &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: contractName,
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       fnName,
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Returns:    []syntax.FunctionParam{{Type: elem("uint256")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.VarDeclStmt{
						Names: []*syntax.Ident{ident("x")},
						Types: []syntax.TypeName{elem("uint256")},
						Init:  lit("1"),
					},
					&syntax.ReturnStmt{Value: ident("x")},
				}},
			}},
		}},
	}
}

func TestCompileSingleUnitProducesDispatcherAndLIR(t *testing.T) {
	opts := target.DefaultOptions(target.NewEVM())
	unit := NewUnit([]*syntax.SourceUnit{oneFunctionUnit("C", "f")}, target.NewEVM(), opts)

	results, bus := Compile([]*Unit{unit})
	require.False(t, bus.HasErrors())
	require.Len(t, results, 1)

	artifact := results[0].Contracts["C"]
	require.NotNil(t, artifact)
	require.Contains(t, artifact.Functions, "f")
	require.NotNil(t, artifact.Dispatcher)
	require.Contains(t, artifact.LIR, "f")
	require.NotNil(t, artifact.LIRDispatcher)
}

func TestCompileRunsIndependentUnitsConcurrentlyWithoutCorruptingDiagnostics(t *testing.T) {
	opts := target.DefaultOptions(target.NewEVM())
	var units []*Unit
	for i := 0; i < 8; i++ {
		units = append(units, NewUnit([]*syntax.SourceUnit{oneFunctionUnit("C", "f")}, target.NewEVM(), opts))
	}

	results, bus := Compile(units)
	require.False(t, bus.HasErrors())
	require.Len(t, results, 8)
	for _, r := range results {
		require.NotNil(t, r.Contracts["C"])
	}
}
