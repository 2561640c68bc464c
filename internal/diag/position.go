package diag

import "fmt"

// Position is a byte-offset span into a source file, exactly the contract
// the external parse tree carries on every node (spec.md §6).
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Span is a primary or secondary location attached to a diagnostic, with an
// optional length so the reporter can underline more than one character.
type Span struct {
	Position Position
	Length   int
	Label    string
}
