package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/namespace"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

func elem(name string) *syntax.ElementaryTypeName {
	return &syntax.ElementaryTypeName{Name: name}
}

func ident(name string) *syntax.Ident {
	return &syntax.Ident{Name: name}
}

func buildSingleContract(t *testing.T, unit *syntax.SourceUnit) *namespace.Namespace {
	t.Helper()
	ns := namespace.Build([]*syntax.SourceUnit{unit}, target.NewEVM())
	require.False(t, ns.Bus.HasErrors(), "namespace build reported errors")
	return ns
}

func TestResolveFunctionAssignsLocalType(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.VarDeclStmt{
						Names: []*syntax.Ident{ident("x")},
						Types: []syntax.TypeName{elem("uint256")},
						Init:  &syntax.Literal{Kind: syntax.LiteralInt, Text: "1"},
					},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	r := ResolveFunction(ns, c, fn)

	decl := fn.Body.Statements[0].(*syntax.VarDeclStmt)
	ty, ok := r.ExprType(decl.Init)
	require.True(t, ok)
	require.Equal(t, types.Int{Bits: 256, Signed: false}, ty)
	require.False(t, ns.Bus.HasErrors())
}

func TestResolvePureFunctionWritingStateVarIsRejected(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{
				{Name: "total", Type: elem("uint256"), Visibility: "public"},
			},
			Functions: []*syntax.FunctionDecl{{
				Name:       "bump",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ExprStmt{Expr: &syntax.AssignExpr{
						LHS: ident("total"),
						RHS: &syntax.Literal{Kind: syntax.LiteralInt, Text: "1"},
					}},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	ResolveFunction(ns, c, fn)

	require.True(t, ns.Bus.HasErrors())
}

func TestResolveNonpayableFunctionReadingMsgValueIsRejected(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "deposit",
				Kind:       syntax.KindFunction,
				Mutability: "nonpayable",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.VarDeclStmt{
						Names: []*syntax.Ident{ident("v")},
						Types: []syntax.TypeName{elem("uint256")},
						Init:  &syntax.FieldAccessExpr{Receiver: ident("msg"), Name: "value"},
					},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	ResolveFunction(ns, c, fn)

	require.True(t, ns.Bus.HasErrors())
}

func TestResolvePayableFunctionReadingMsgValueIsAllowed(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "deposit",
				Kind:       syntax.KindFunction,
				Mutability: "payable",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.VarDeclStmt{
						Names: []*syntax.Ident{ident("v")},
						Types: []syntax.TypeName{elem("uint256")},
						Init:  &syntax.FieldAccessExpr{Receiver: ident("msg"), Name: "value"},
					},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	ResolveFunction(ns, c, fn)

	require.False(t, ns.Bus.HasErrors())
}

func TestResolveViewFunctionReadingStateVarIsAllowed(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{
				{Name: "total", Type: elem("uint256"), Visibility: "public"},
			},
			Functions: []*syntax.FunctionDecl{{
				Name:       "read",
				Kind:       syntax.KindFunction,
				Mutability: "view",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ReturnStmt{Value: ident("total")},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	r := ResolveFunction(ns, c, fn)

	ret := fn.Body.Statements[0].(*syntax.ReturnStmt)
	ty, ok := r.ExprType(ret.Value)
	require.True(t, ok)
	require.Equal(t, types.Int{Bits: 256, Signed: false}, ty)
	require.False(t, ns.Bus.HasErrors())
}

func TestResolveShadowedParameterWarns(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Params: []syntax.FunctionParam{
					{Name: "x", Type: elem("uint256")},
				},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.VarDeclStmt{
						Names: []*syntax.Ident{ident("x")},
						Types: []syntax.TypeName{elem("uint256")},
						Init:  &syntax.Literal{Kind: syntax.LiteralInt, Text: "2"},
					},
				}},
			}},
		}},
	}
	ns := buildSingleContract(t, unit)
	c := ns.Contracts[0]
	fn := c.Functions[0]

	ResolveFunction(ns, c, fn)

	require.False(t, ns.Bus.HasErrors())
	found := false
	for _, d := range ns.Bus.Diagnostics() {
		if d.Code == "W0001" {
			found = true
		}
	}
	require.True(t, found, "expected a shadowed-parameter warning")
}
