// Package resolve implements the expression & statement resolver (spec.md
// §4.2): given one function body at a time plus its namespace context, it
// assigns a type to every expression, inserts implicit conversions,
// checks the mutability and visibility/override rules, and binds every
// identifier to a namespace entry or local variable.
//
// Grounded on the teacher's internal/semantic package split (analyzer.go,
// analyzer_type.go, flow_analyzer.go dividing the resolver by concern) and
// its "annotate the existing tree rather than build a new one" approach
// (internal/ast/assign_types.go, metadata.go) — generalized here into a
// side-table of per-expression types rather than per-node metadata structs,
// since this repo's syntax nodes don't carry a metadata field.
package resolve

import "solcore/internal/types"

// bindingKind distinguishes how a resolved name was bound.
type bindingKind int

const (
	bindParameter bindingKind = iota
	bindLocal
	bindStateVariable
	bindFunction
	bindContract
)

// binding is one entry in a lexical scope.
type binding struct {
	Name string
	Kind bindingKind
	Type types.Type
	// Index locates the definition: a namespace.Function/StateVariable
	// index for non-local bindings, or a CFG-builder-assigned slot for
	// locals (unused here — internal/cfg owns local variable ids).
	Index int
}

// scope is one lexical level: parameters, or a for/while/block's locals.
// Scopes chain to a parent so lookups fall through to contract scope and
// finally file scope (spec.md §4.2: "Name resolution walks a stack of
// lexical scopes ... plus contract scope plus file scope, in that order").
type scope struct {
	bindings map[string]*binding
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]*binding), parent: parent}
}

// declare adds a binding to this scope. It returns the previously-bound
// parameter binding with the same name, if any — used by the caller to
// emit the "shadowing a parameter" warning (spec.md §4.2: "Shadowing a
// parameter by a local is permitted but warned").
func (s *scope) declare(b *binding) (shadowedParam *binding) {
	if prev, ok := s.lookup(b.Name); ok && prev.Kind == bindParameter {
		shadowedParam = prev
	}
	s.bindings[b.Name] = b
	return shadowedParam
}

func (s *scope) lookup(name string) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// lookupLocalChain reports whether name is bound directly in s; parent
// scopes are not searched.
func (s *scope) lookupLocalChain(name string) (*binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}
