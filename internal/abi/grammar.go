// Package abi computes the canonical ABI type signature of a function or
// event, and derives the selector/topic hash a dispatcher switches on
// (spec.md §4.4). The teacher's grammar package parses an entire source
// language with participle; here the same library is re-scoped to the one
// small grammar a signature string like "transfer(address,uint256)"
// actually needs: round-tripping a canonical name supplied at a CLI
// boundary or read back from a trace, not driving compilation itself.
package abi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var sigLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[()\[\],]`},
})

// TypeSig is one parsed ABI type: either a bare elementary name ("address",
// "uint256", "bytes32") or a parenthesized tuple of nested TypeSigs,
// optionally followed by one array suffix ("[]" or "[N]"). Nested arrays
// of arrays are out of scope for this round-trip grammar; the recursive
// types.Type.String() path used everywhere else handles them directly.
type TypeSig struct {
	Pos      lexer.Position
	Name     string     `(  @Ident`
	Tuple    []*TypeSig `|  "(" (@@ ("," @@)*)? ")" )`
	HasArray bool       `( @"["`
	Length   string     `  @Number? "]" )?`
}

func (t *TypeSig) isTuple() bool { return t.Tuple != nil }

// arrayLength parses Length back to an int, or -1 for a dynamic array.
func (t *TypeSig) arrayLength() int {
	if t.Length == "" {
		return -1
	}
	n, _ := strconv.Atoi(t.Length)
	return n
}

// String reconstructs the canonical signature text for t.
func (t *TypeSig) String() string {
	var b strings.Builder
	if t.isTuple() {
		b.WriteString("(")
		for i, e := range t.Tuple {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(e.String())
		}
		b.WriteString(")")
	} else {
		b.WriteString(t.Name)
	}
	if t.HasArray {
		b.WriteString("[")
		b.WriteString(t.Length)
		b.WriteString("]")
	}
	return b.String()
}

// Signature is a full `name(type,type,...)` signature.
type Signature struct {
	Pos    lexer.Position
	Name   string     `@Ident "("`
	Params []*TypeSig `(@@ ("," @@)*)? ")"`
}

var sigParser = participle.MustBuild[Signature](
	participle.Lexer(sigLexer),
	participle.UseLookahead(2),
)

// ParseSignature parses a canonical signature string such as
// "transfer(address,uint256)" back into its structured form.
func ParseSignature(s string) (*Signature, error) {
	sig, err := sigParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid ABI signature %q: %w", s, err)
	}
	return sig, nil
}

// String reconstructs the canonical signature text.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	return b.String()
}
