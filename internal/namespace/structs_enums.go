package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// resolveStruct converts a syntax.StructDecl into a namespace.Struct,
// applying spec.md §4.1's struct invariants: "Forbid zero-field structs.
// Reject storage/calldata/memory location qualifiers on struct fields."
// resolveTypeName is supplied by the caller so this file stays free of a
// dependency on the (still-being-resolved) symbol table lookups it needs
// for user-defined type names.
func resolveStruct(bus *diag.Bus, decl *syntax.StructDecl, index int, resolveTypeName func(syntax.TypeName) types.Type) *Struct {
	if len(decl.Fields) == 0 {
		bus.Errorf(diag.ErrEmptyStruct, decl.Span(), "struct '"+decl.Name+"' has no fields")
	}

	seen := make(map[string]diag.Span)
	s := &Struct{Name: decl.Name, Index: index, Pos: decl.Span()}
	for _, f := range decl.Fields {
		if prev, ok := seen[f.Name]; ok {
			bus.Report(diag.Diagnostic{
				Level:     diag.Error,
				Code:      diag.ErrDuplicateStructField,
				Message:   "duplicate field '" + f.Name + "' in struct '" + decl.Name + "'",
				Primary:   f.Span(),
				Secondary: []diag.Span{{Position: prev.Position, Label: "previous declaration of '" + f.Name + "' here"}},
			})
			continue
		}
		seen[f.Name] = f.Span()

		if q, ok := f.Type.(*syntax.QualifiedTypeName); ok && q.Location != syntax.LocationNone {
			bus.Errorf(diag.ErrLocationQualifier, f.Span(),
				"struct field '"+f.Name+"' may not carry a storage/memory/calldata location qualifier")
		}

		s.Fields = append(s.Fields, StructField{
			Name: f.Name,
			Type: resolveTypeName(f.Type),
			Pos:  f.Span(),
		})
	}
	return s
}

// resolveEnum converts a syntax.EnumDecl into a namespace.Enum, preserving
// source member order (spec.md §4.1: "Enums have a fixed ordinal order
// matching source; their max/min are bounded by member count").
func resolveEnum(decl *syntax.EnumDecl, index int) *Enum {
	e := &Enum{Name: decl.Name, Index: index, Pos: decl.Span()}
	for _, m := range decl.Members {
		e.Members = append(e.Members, m.Name)
	}
	return e
}

// EnumOrdinalBounds returns the minimum and maximum valid ordinal for e,
// per spec.md §4.1.
func EnumOrdinalBounds(e *Enum) (min, max int) {
	return 0, len(e.Members) - 1
}
