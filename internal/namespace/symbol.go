// Package namespace implements the namespace builder (spec.md §4.1): it
// consumes parsed source units and a target descriptor and produces the
// typed program model — contracts, functions, structs, enums, events,
// storage variables, user types and the inheritance graph — populated up
// to but excluding function bodies.
//
// Grounded on the teacher's internal/semantic/symbols.go SymbolTable and
// internal/semantic/context.go ContextRegistry, generalized from kanso's
// module-level symbol kinds to Solidity's contract/struct/enum/event/
// user-type/state-variable set.
package namespace

import "solcore/internal/diag"

// SymbolKind classifies what a top-level or contract-level name refers to.
type SymbolKind int

const (
	SymbolContract SymbolKind = iota
	SymbolStruct
	SymbolEnum
	SymbolUserType
	SymbolFunction
	SymbolStateVariable
	SymbolEvent
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolContract:
		return "contract"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolUserType:
		return "user type"
	case SymbolFunction:
		return "function"
	case SymbolStateVariable:
		return "state variable"
	case SymbolEvent:
		return "event"
	default:
		return "symbol"
	}
}

// Symbol is one entry in a SymbolTable: a name bound to a definition's
// position and an opaque index into the owning Namespace slice it was
// collected into (Contracts[Index], Structs[Index], ...).
type Symbol struct {
	Name string
	Kind SymbolKind
	Pos  diag.Span
	// Index locates the definition within the slice its Kind implies;
	// interpretation is up to the caller (mirrors the teacher's pattern of
	// storing an ast.Node pointer, but index-based to match this repo's
	// flat-slice-with-index-reference convention from internal/types).
	Index int
	// Owner is the contract index that directly declares this member
	// (SymbolFunction/SymbolStateVariable/SymbolEvent/SymbolStruct/
	// SymbolEnum), preserved as-is when propagateInheritedMembers copies a
	// symbol into a derived contract's scope, so Index keeps meaning
	// "index into Owner's own slice" regardless of how many contracts
	// inherited it since. Unused (zero) for SymbolContract/SymbolUserType,
	// which are always looked up in the global table.
	Owner int
}

// SymbolTable maps qualified names to definitions within one scope —
// global (contract/struct/enum/user-type/free-function names) or
// contract-local (members, inherited or declared). A parent table enables
// the contract-local table to fall through to the global one.
type SymbolTable struct {
	symbols map[string]*Symbol
	parent  *SymbolTable
}

// NewSymbolTable creates a table, optionally chained to a parent.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol), parent: parent}
}

// Define registers name in this table. If name is already bound *in this
// table* (not a parent), Define reports a duplicate-definition diagnostic
// carrying both the new and the previous location (spec.md §4.1: "detect
// and report duplicates with both the new and the previous source
// location") and does not overwrite the existing binding.
func (st *SymbolTable) Define(bus *diag.Bus, sym *Symbol) {
	if existing, ok := st.symbols[sym.Name]; ok {
		bus.Report(diag.Diagnostic{
			Level:   diag.Error,
			Code:    diag.ErrRedeclaration,
			Message: "redeclaration of '" + sym.Name + "'",
			Primary: sym.Pos,
			Secondary: []diag.Span{
				{Position: existing.Pos.Position, Label: "previous declaration of '" + sym.Name + "' here"},
			},
		})
		return
	}
	st.symbols[sym.Name] = sym
}

// Lookup resolves name in this table, falling through to parents.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	if sym, ok := st.symbols[name]; ok {
		return sym, true
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil, false
}

// LookupLocal resolves name only in this table, ignoring parents.
func (st *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// All returns every symbol defined directly in this table (not parents),
// used by propagateInheritedMembers to enumerate inherited members.
func (st *SymbolTable) All() map[string]*Symbol {
	return st.symbols
}
