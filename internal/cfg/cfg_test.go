package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"solcore/internal/namespace"
	"solcore/internal/resolve"
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

// build runs one function body through the full namespace -> resolve -> cfg
// pipeline and hands back the lowered Function plus the namespace, for tests
// that need to cross-check storage slots.
func build(t *testing.T, unit *syntax.SourceUnit) (*Function, *namespace.Namespace) {
	t.Helper()
	ns := namespace.Build([]*syntax.SourceUnit{unit}, target.NewEVM())
	require.False(t, ns.Bus.HasErrors(), "namespace build reported errors")
	c := ns.Contracts[0]
	fn := c.Functions[0]
	r := resolve.ResolveFunction(ns, c, fn)
	return Build(ns, c, fn, r), ns
}

func TestBuildStraightLineFunctionIsOneBlockEndingInReturn(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
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

	f, _ := build(t, unit)

	require.Len(t, f.Blocks, 1)
	entry := f.Block(f.Entry)
	require.False(t, entry.Unreachable)
	require.Len(t, entry.Instructions, 1)
	_, ok := entry.Instructions[0].(*SetLocal)
	require.True(t, ok)
	ret, ok := entry.Terminator.(*Return)
	require.True(t, ok)
	require.Len(t, ret.Values, 1)
	require.Equal(t, []BlockID{f.Entry}, f.SuccessExits)
}

func TestBuildFunctionWithNoExplicitReturnGetsImplicitReturn(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Body:       &syntax.Block{},
			}},
		}},
	}

	f, _ := build(t, unit)

	require.Len(t, f.Blocks, 1)
	_, ok := f.Block(f.Entry).Terminator.(*Return)
	require.True(t, ok)
}

func TestBuildIfElseLinksThenAndElseIntoJoinBlock(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Params:     []syntax.FunctionParam{{Name: "cond", Type: elem("bool")}},
				Returns:    []syntax.FunctionParam{{Type: elem("uint256")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.IfStmt{
						Cond: ident("cond"),
						Then: &syntax.Block{Statements: []syntax.Statement{
							&syntax.ReturnStmt{Value: lit("1")},
						}},
						Else: &syntax.Block{Statements: []syntax.Statement{
							&syntax.ReturnStmt{Value: lit("2")},
						}},
					},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	// entry (branch) -> then (return), else (return); join block is built
	// but never reached since both arms return, so reachability prunes it.
	require.Len(t, f.Blocks, 4)
	entry := f.Block(f.Entry)
	branch, ok := entry.Terminator.(*Branch)
	require.True(t, ok)

	thenBlock := f.Block(branch.Then)
	_, ok = thenBlock.Terminator.(*Return)
	require.True(t, ok)
	require.False(t, thenBlock.Unreachable)

	elseBlock := f.Block(branch.Else)
	_, ok = elseBlock.Terminator.(*Return)
	require.True(t, ok)
	require.False(t, elseBlock.Unreachable)

	// join is block index 3 (entry=0, then=1, else=2, join=3) and unreached.
	join := f.Blocks[3]
	require.True(t, join.Unreachable)
	require.Len(t, f.SuccessExits, 2)
}

func TestBuildWhileLoopBreakAndContinueTargetHeaderAndExit(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Params:     []syntax.FunctionParam{{Name: "cond", Type: elem("bool")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.WhileStmt{
						Cond: ident("cond"),
						Body: &syntax.Block{Statements: []syntax.Statement{
							&syntax.IfStmt{
								Cond: ident("cond"),
								Then: &syntax.Block{Statements: []syntax.Statement{&syntax.BreakStmt{}}},
							},
							&syntax.ContinueStmt{},
						}},
					},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	header := f.Block(f.Entry).Terminator.(*Jump).Target
	branch, ok := f.Block(header).Terminator.(*Branch)
	require.True(t, ok)

	bodyEntry := f.Block(branch.Then)
	innerBranch, ok := bodyEntry.Terminator.(*Branch)
	require.True(t, ok)

	breakTarget := f.Block(innerBranch.Then).Terminator.(*Jump).Target
	require.Equal(t, branch.Else, breakTarget)

	continueBlock := f.Block(innerBranch.Else)
	continueTarget := continueBlock.Terminator.(*Jump).Target
	require.Equal(t, header, continueTarget)
}

func TestBuildForLoopHeaderBodyPostExitShape(t *testing.T) {
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
					&syntax.ForStmt{
						Init: &syntax.VarDeclStmt{
							Names: []*syntax.Ident{ident("i")},
							Types: []syntax.TypeName{elem("uint256")},
							Init:  lit("0"),
						},
						Cond: &syntax.BinaryExpr{Op: syntax.OpLt, Left: ident("i"), Right: lit("10")},
						Post: &syntax.ExprStmt{Expr: &syntax.AssignExpr{
							LHS: ident("i"),
							RHS: &syntax.BinaryExpr{Op: syntax.OpAdd, Left: ident("i"), Right: lit("1")},
						}},
						Body: &syntax.Block{},
					},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	// entry: lowers Init (SetLocal for i), jumps to header.
	entry := f.Block(f.Entry)
	require.Len(t, entry.Instructions, 1)
	header := f.Block(entry.Terminator.(*Jump).Target)

	branch, ok := header.Terminator.(*Branch)
	require.True(t, ok)
	_, isBinary := branch.Cond.(*syntax.BinaryExpr)
	require.True(t, isBinary, "header condition has no storage read, so materialize leaves the comparison in place")

	body := f.Block(branch.Then)
	postJump, ok := body.Terminator.(*Jump)
	require.True(t, ok)
	post := f.Block(postJump.Target)
	require.Len(t, post.Instructions, 1) // the i = i + 1 SetLocal
	postTerm, ok := post.Terminator.(*Jump)
	require.True(t, ok)
	require.Equal(t, entry.Terminator.(*Jump).Target, postTerm.Target) // loops back to header
}

func TestBuildDoWhileLowersConditionInTrailingBlock(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Params:     []syntax.FunctionParam{{Name: "cond", Type: elem("bool")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.DoWhileStmt{
						Body: &syntax.Block{},
						Cond: ident("cond"),
					},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	body := f.Block(f.Block(f.Entry).Terminator.(*Jump).Target)
	condBlock := f.Block(body.Terminator.(*Jump).Target)
	branch, ok := condBlock.Terminator.(*Branch)
	require.True(t, ok)
	require.Equal(t, body.ID, branch.Then)
}

func TestBuildTopLevelStorageReadMaterializesLoadStorage(t *testing.T) {
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
				Returns:    []syntax.FunctionParam{{Type: elem("uint256")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ReturnStmt{Value: ident("total")},
				}},
			}},
		}},
	}

	f, ns := build(t, unit)

	entry := f.Block(f.Entry)
	require.Len(t, entry.Instructions, 1)
	load, ok := entry.Instructions[0].(*LoadStorage)
	require.True(t, ok)
	require.Equal(t, ns.Contracts[0].StateVars[0].Slot, load.Slot)

	ret := entry.Terminator.(*Return)
	require.Len(t, ret.Values, 1)
	retIdent, ok := ret.Values[0].(*syntax.Ident)
	require.True(t, ok)
	require.Equal(t, f.Var(load.Dst).Name, retIdent.Name)
}

func TestBuildStorageWriteLowersToSetStorage(t *testing.T) {
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
				Mutability: "nonpayable",
				Visibility: "public",
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ExprStmt{Expr: &syntax.AssignExpr{
						LHS: ident("total"),
						RHS: lit("1"),
					}},
				}},
			}},
		}},
	}

	f, ns := build(t, unit)

	entry := f.Block(f.Entry)
	require.Len(t, entry.Instructions, 1)
	set, ok := entry.Instructions[0].(*SetStorage)
	require.True(t, ok)
	require.Equal(t, ns.Contracts[0].StateVars[0].Slot, set.Slot)
}

func TestBuildMappingWriteLowersSlotExprAsKeccakCall(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{
				{Name: "balances", Type: &syntax.MappingTypeName{Key: elem("address"), Value: elem("uint256")}, Visibility: "public"},
			},
			Functions: []*syntax.FunctionDecl{{
				Name:       "credit",
				Kind:       syntax.KindFunction,
				Mutability: "nonpayable",
				Visibility: "public",
				Params:     []syntax.FunctionParam{{Name: "who", Type: elem("address")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ExprStmt{Expr: &syntax.AssignExpr{
						LHS: &syntax.IndexExpr{Receiver: ident("balances"), Index: ident("who")},
						RHS: lit("100"),
					}},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	entry := f.Block(f.Entry)
	set, ok := entry.Instructions[0].(*SetStorage)
	require.True(t, ok)
	require.NotNil(t, set.SlotExpr)
	call, ok := set.SlotExpr.(*syntax.CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*syntax.Ident)
	require.True(t, ok)
	require.Equal(t, "keccak256", callee.Name)
	require.Len(t, call.Args, 2)
}

func TestBuildDynamicArrayIndexUsesKeccakRootAndBareIndexForUnitStride(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			StateVars: []*syntax.StateVarDecl{
				{Name: "items", Type: &syntax.ArrayTypeName{Element: elem("uint256")}, Visibility: "public"},
			},
			Functions: []*syntax.FunctionDecl{{
				Name:       "set",
				Kind:       syntax.KindFunction,
				Mutability: "nonpayable",
				Visibility: "public",
				Params:     []syntax.FunctionParam{{Name: "i", Type: elem("uint256")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ExprStmt{Expr: &syntax.AssignExpr{
						LHS: &syntax.IndexExpr{Receiver: ident("items"), Index: ident("i")},
						RHS: lit("1"),
					}},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	entry := f.Block(f.Entry)
	set, ok := entry.Instructions[0].(*SetStorage)
	require.True(t, ok)
	require.NotNil(t, set.SlotExpr)

	add, ok := set.SlotExpr.(*syntax.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, syntax.OpAdd, add.Op)

	root, ok := add.Left.(*syntax.CallExpr)
	require.True(t, ok)
	rootCallee := root.Callee.(*syntax.Ident)
	require.Equal(t, "keccak256", rootCallee.Name)

	// a scalar element has stride 1, which scaledIndex leaves as the bare
	// index rather than wrapping it in a shift or multiply.
	_, isIdent := add.Right.(*syntax.Ident)
	require.True(t, isIdent)
}

func TestBuildUnreachableCodeAfterReturnIsMarked(t *testing.T) {
	unit := &syntax.SourceUnit{
		Contracts: []*syntax.ContractDecl{{
			Name: "C",
			Kind: syntax.KindContract,
			Functions: []*syntax.FunctionDecl{{
				Name:       "f",
				Kind:       syntax.KindFunction,
				Mutability: "pure",
				Visibility: "public",
				Returns:    []syntax.FunctionParam{{Type: elem("uint256")}},
				Body: &syntax.Block{Statements: []syntax.Statement{
					&syntax.ReturnStmt{Value: lit("1")},
					&syntax.IfStmt{
						Cond: &syntax.Literal{Kind: syntax.LiteralBool, Text: "true"},
						Then: &syntax.Block{Statements: []syntax.Statement{
							&syntax.ReturnStmt{Value: lit("2")},
						}},
					},
				}},
			}},
		}},
	}

	f, _ := build(t, unit)

	require.True(t, len(f.Blocks) > 1)
	for _, blk := range f.Blocks[1:] {
		require.True(t, blk.Unreachable, "block %d following an unconditional return should be unreachable", blk.ID)
	}
}
