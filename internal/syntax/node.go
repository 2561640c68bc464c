// Package syntax models the shape of a parsed Solidity source file: the
// parse tree the namespace builder consumes. It deliberately contains no
// lexer or parser — spec.md §1 places "the grammar-driven parser producing
// the parse tree" out of scope, treating it as an external collaborator
// described only by the interface it hands the core. The struct shapes
// here are that interface.
//
// Modeled on the teacher's internal/ast package: a Node interface every
// concrete node implements, tagged-sum interfaces (Expr, Statement,
// Declaration) grouping related node kinds, and explicit struct types
// rather than a generic tree — the same shape, generalized from kanso's
// surface grammar to Solidity's.
package syntax

import "solcore/internal/diag"

// Node is implemented by every syntax-tree node. Spans are carried through
// to diagnostics produced by every later stage (spec.md §3: "Statement/
// Expression trees ... carry location spans from the parse tree for
// diagnostic reporting").
type Node interface {
	Span() diag.Span
}

// base is embedded by every concrete node to provide Span() without
// repeating the field and method on each type.
type base struct {
	Pos diag.Span
}

func (b base) Span() diag.Span { return b.Pos }

// Ident is a bare identifier reference, used both as an expression and in
// declaration positions (parameter names, struct field names, ...).
type Ident struct {
	base
	Name string
}
