package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/diag"
)

func TestNodeSpanRoundTrips(t *testing.T) {
	sp := diag.Span{Position: diag.Position{Filename: "a.sol", Line: 3, Column: 5}}
	id := &Ident{base: base{Pos: sp}, Name: "x"}
	require.Equal(t, sp, id.Span())
}

func TestExprInterfaceMembership(t *testing.T) {
	var e Expr = &BinaryExpr{Op: OpAdd, Left: &Ident{Name: "a"}, Right: &Literal{Kind: LiteralInt, Text: "1"}}
	_, ok := e.(*BinaryExpr)
	require.True(t, ok)
}

func TestStructDeclFieldOrderPreserved(t *testing.T) {
	s := &StructDecl{
		Name: "Point",
		Fields: []StructFieldDecl{
			{Name: "x", Type: &ElementaryTypeName{Name: "uint256"}},
			{Name: "y", Type: &ElementaryTypeName{Name: "uint256"}},
		},
	}
	require.Equal(t, "x", s.Fields[0].Name)
	require.Equal(t, "y", s.Fields[1].Name)
}
