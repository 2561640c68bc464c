package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/types"
)

// ResolveStandaloneTypeName resolves a syntax.TypeName against an already
// built namespace — used by internal/resolve for local variable
// declarations and explicit casts encountered inside a function body,
// where no new declaration is being added to ns.
func ResolveStandaloneTypeName(ns *Namespace, tn syntax.TypeName) types.Type {
	return makeTypeResolver(ns)(tn)
}

// makeTypeResolver returns a function that converts surface syntax.TypeName
// nodes into resolved types.Type values against ns's (partially built)
// global symbol table, reporting unknown-type diagnostics as it goes.
func makeTypeResolver(ns *Namespace) func(syntax.TypeName) types.Type {
	var resolve func(syntax.TypeName) types.Type
	resolve = func(tn syntax.TypeName) types.Type {
		switch t := tn.(type) {
		case nil:
			return types.Void{}
		case *syntax.ElementaryTypeName:
			return elementaryType(ns, t)
		case *syntax.ArrayTypeName:
			length := -1
			if t.Length != nil {
				if lit, ok := t.Length.(*syntax.Literal); ok && lit.Kind == syntax.LiteralInt {
					length = parseIntLiteral(lit.Text)
				}
			}
			return types.Array{Element: resolve(t.Element), Length: length}
		case *syntax.MappingTypeName:
			return types.Mapping{Key: resolve(t.Key), Value: resolve(t.Value)}
		case *syntax.UserDefinedTypeName:
			return resolveUserDefinedType(ns, t)
		case *syntax.FunctionTypeName:
			params := make([]types.Type, len(t.Params))
			for i, p := range t.Params {
				params[i] = resolve(p)
			}
			returns := make([]types.Type, len(t.Returns))
			for i, r := range t.Returns {
				returns[i] = resolve(r)
			}
			return types.Function{
				Params: params, Returns: returns,
				Mutability: resolveMutability(t.Mutability),
				Visibility: resolveVisibility(t.Visibility, types.Internal),
			}
		case *syntax.QualifiedTypeName:
			inner := resolve(t.Inner)
			loc := resolveLocation(t.Location)
			if loc == types.NoLocation {
				return inner
			}
			return types.Qualified{Inner: inner, Location: loc}
		default:
			return types.Void{}
		}
	}
	return resolve
}

func elementaryType(ns *Namespace, t *syntax.ElementaryTypeName) types.Type {
	switch t.Name {
	case "bool":
		return types.Bool{}
	case "address":
		return types.Address{}
	case "address payable":
		return types.Address{Payable: true}
	case "string":
		return types.String{}
	case "bytes":
		return types.DynamicBytes{}
	default:
		if bits, signed, ok := parseIntTypeName(t.Name); ok {
			return types.Int{Bits: bits, Signed: signed}
		}
		if width, ok := parseFixedBytesTypeName(t.Name); ok {
			return types.FixedBytes{Width: width}
		}
		ns.Bus.Errorf(diag.ErrUnknownType, t.Span(), "unknown type '"+t.Name+"'")
		return types.Void{}
	}
}

func resolveUserDefinedType(ns *Namespace, t *syntax.UserDefinedTypeName) types.Type {
	if len(t.Path) == 0 {
		return types.Void{}
	}
	name := t.Path[len(t.Path)-1]
	sym, ok := ns.Global.Lookup(name)
	if !ok {
		ns.Bus.Errorf(diag.ErrUnknownType, t.Span(), "undeclared type '"+name+"'")
		return types.Void{}
	}
	switch sym.Kind {
	case SymbolStruct:
		return types.StructRef{Index: sym.Index, Name: name}
	case SymbolEnum:
		return types.EnumRef{Index: sym.Index, Name: name}
	case SymbolUserType:
		return types.UserTypeAlias{Index: sym.Index, Name: name, Underlying: ns.UserTypes[sym.Index].Underlying}
	case SymbolContract:
		// a contract name used as a type denotes its address.
		return types.Address{}
	default:
		ns.Bus.Errorf(diag.ErrUnknownType, t.Span(), "'"+name+"' does not name a type")
		return types.Void{}
	}
}

func parseIntTypeName(name string) (bits int, signed bool, ok bool) {
	if len(name) < 4 {
		return 0, false, false
	}
	switch {
	case name[:4] == "uint":
		signed = false
	case len(name) >= 3 && name[:3] == "int":
		signed = true
	default:
		return 0, false, false
	}
	digits := name[4:]
	if signed {
		digits = name[3:]
	}
	if digits == "" {
		return 256, signed, true // bare `uint`/`int` is an alias for the 256-bit form
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 || n > 256 || n%8 != 0 {
		return 0, false, false
	}
	return n, signed, true
}

func parseFixedBytesTypeName(name string) (width int, ok bool) {
	if len(name) < 6 || name[:5] != "bytes" {
		return 0, false
	}
	digits := name[5:]
	if digits == "" {
		return 0, false // bare "bytes" is DynamicBytes, handled earlier
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > 32 {
		return 0, false
	}
	return n, true
}

func parseIntLiteral(text string) int {
	n := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
