package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

// Build runs the full namespace builder (spec.md §4.1) over a set of
// parsed source units: collecting every top-level definition, resolving
// the inheritance graph, resolving structs/enums/user types, assigning
// storage layout, and enforcing library constraints. Function bodies are
// left unresolved — that is internal/resolve's job.
func Build(units []*syntax.SourceUnit, t target.Descriptor) *Namespace {
	ns := New(t)

	// Pass 1: collect every top-level struct/enum/user-type/contract name
	// so forward references within and across files resolve.
	for _, u := range units {
		for _, s := range u.Structs {
			idx := len(ns.Structs)
			ns.Structs = append(ns.Structs, &Struct{Name: s.Name, Index: idx, Pos: s.Span()})
			ns.Global.Define(ns.Bus, &Symbol{Name: s.Name, Kind: SymbolStruct, Pos: s.Span(), Index: idx})
		}
		for _, e := range u.Enums {
			idx := len(ns.Enums)
			ns.Enums = append(ns.Enums, resolveEnum(e, idx))
			ns.Global.Define(ns.Bus, &Symbol{Name: e.Name, Kind: SymbolEnum, Pos: e.Span(), Index: idx})
		}
		for _, c := range u.Contracts {
			idx := len(ns.Contracts)
			ns.Contracts = append(ns.Contracts, &Contract{
				Name: c.Name, Index: idx, Kind: c.Kind, Pos: c.Span(),
				Scope: NewSymbolTable(ns.Global), Initializer: -1,
			})
			ns.Global.Define(ns.Bus, &Symbol{Name: c.Name, Kind: SymbolContract, Pos: c.Span(), Index: idx})
		}
	}

	resolveTypeName := makeTypeResolver(ns)

	// Pass 2: fully resolve struct field types (needs every struct/enum
	// name already registered for forward references).
	for _, u := range units {
		for _, s := range u.Structs {
			sym, _ := ns.Global.Lookup(s.Name)
			ns.Structs[sym.Index] = resolveStruct(ns.Bus, s, sym.Index, resolveTypeName)
		}
	}

	// Pass 3: user types (underlying may itself be a resolved struct/enum
	// or primitive).
	for _, u := range units {
		for _, ut := range u.UserTypes {
			idx := len(ns.UserTypes)
			ns.UserTypes = append(ns.UserTypes, &UserType{
				Name: ut.Name, Index: idx, Pos: ut.Span(),
				Underlying: resolveTypeName(ut.Underlying),
			})
			ns.Global.Define(ns.Bus, &Symbol{Name: ut.Name, Kind: SymbolUserType, Pos: ut.Span(), Index: idx})
		}
	}

	// Pass 3b: file-scoped `using Lib for Type;` directives (spec.md §3's
	// "using directives"), resolved into ns.Using once every library name
	// is registered (pass 1) and every struct/enum/user type it might
	// bind to is resolvable (passes 2-3).
	for _, u := range units {
		for _, ud := range u.Using {
			if d := resolveUsingDirective(ns, ud, resolveTypeName); d != nil {
				ns.Using = append(ns.Using, d)
			}
		}
	}

	// Pass 4: contract bodies — bases, state vars, events, nested structs/
	// enums, and function signatures (not bodies).
	for _, u := range units {
		for _, cd := range u.Contracts {
			sym, _ := ns.Global.Lookup(cd.Name)
			c := ns.Contracts[sym.Index]
			resolveContractBases(ns, c, cd)
			resolveContractMembers(ns, c, cd, resolveTypeName)
		}
	}

	Linearise(ns)
	for _, c := range ns.Contracts {
		propagateInheritedMembers(ns, c)
		AssignStorageLayout(ns, c)
	}
	CheckLibraryConstraints(ns)
	CheckOverrides(ns)
	checkConstantInitializers(ns)
	SynthesizeGetters(ns)

	return ns
}

func resolveContractBases(ns *Namespace, c *Contract, cd *syntax.ContractDecl) {
	for _, spec := range cd.Inherits {
		sym, ok := ns.Global.Lookup(spec.Name)
		if !ok || sym.Kind != SymbolContract {
			ns.Bus.Errorf(diag.ErrUndeclaredIdentifier, spec.Span(), "undeclared base contract '"+spec.Name+"'")
			continue
		}
		c.Bases = append(c.Bases, sym.Index)
	}
}

func resolveContractMembers(ns *Namespace, c *Contract, cd *syntax.ContractDecl, resolveTypeName func(syntax.TypeName) types.Type) {
	for _, s := range cd.Structs {
		idx := len(ns.Structs)
		st := resolveStruct(ns.Bus, s, idx, resolveTypeName)
		ns.Structs = append(ns.Structs, st)
		c.Structs = append(c.Structs, st)
		c.Scope.Define(ns.Bus, &Symbol{Name: s.Name, Kind: SymbolStruct, Pos: s.Span(), Index: idx, Owner: c.Index})
	}
	for _, e := range cd.Enums {
		idx := len(ns.Enums)
		en := resolveEnum(e, idx)
		ns.Enums = append(ns.Enums, en)
		c.Enums = append(c.Enums, en)
		c.Scope.Define(ns.Bus, &Symbol{Name: e.Name, Kind: SymbolEnum, Pos: e.Span(), Index: idx, Owner: c.Index})
	}
	for _, ev := range cd.Events {
		idx := len(c.Events)
		event := &Event{Name: ev.Name, Index: idx, Pos: ev.Span(), Anonymous: ev.Anonymous}
		for _, p := range ev.Params {
			event.Params = append(event.Params, Parameter{
				Name: p.Name, Type: resolveTypeName(p.Type), Indexed: p.Indexed, Pos: p.Span(),
			})
		}
		c.Events = append(c.Events, event)
		c.Scope.Define(ns.Bus, &Symbol{Name: ev.Name, Kind: SymbolEvent, Pos: ev.Span(), Index: idx, Owner: c.Index})
	}
	for _, sv := range cd.StateVars {
		idx := len(c.StateVars)
		resolved := &StateVariable{
			Name: sv.Name, Index: idx, Pos: sv.Span(),
			Type: resolveTypeName(sv.Type), Constant: sv.Constant, Immutable: sv.Immutable,
			Visibility: resolveVisibility(sv.Visibility, types.Internal),
			Init:       sv.Init,
		}
		c.StateVars = append(c.StateVars, resolved)
		c.Scope.Define(ns.Bus, &Symbol{Name: sv.Name, Kind: SymbolStateVariable, Pos: sv.Span(), Index: idx, Owner: c.Index})
	}
	for _, ud := range cd.UsingDirectives {
		if d := resolveUsingDirective(ns, ud, resolveTypeName); d != nil {
			c.Using = append(c.Using, d)
		}
	}
	for _, fd := range cd.Functions {
		idx := len(c.Functions)
		fn := &Function{
			Name: fd.Name, Index: idx, Pos: fd.Span(), Owner: c.Index,
			Kind:       fd.Kind,
			Mutability: resolveMutability(fd.Mutability),
			Visibility: resolveVisibility(fd.Visibility, types.Public),
			Virtual:    fd.Virtual,
			Body:       fd.Body,
			Builtin:    fd.Body == nil,
		}
		for _, p := range fd.Params {
			fn.Params = append(fn.Params, Parameter{Name: p.Name, Type: resolveTypeName(p.Type), Location: resolveLocation(p.Location), Pos: p.Span()})
		}
		for _, r := range fd.Returns {
			fn.Returns = append(fn.Returns, Parameter{Name: r.Name, Type: resolveTypeName(r.Type), Location: resolveLocation(r.Location), Pos: r.Span()})
		}
		c.Functions = append(c.Functions, fn)
		if fd.Kind == syntax.KindConstructor {
			c.Initializer = idx
		}
		if fd.Name != "" {
			c.Scope.Define(ns.Bus, &Symbol{Name: fd.Name, Kind: SymbolFunction, Pos: fd.Span(), Index: idx, Owner: c.Index})
		}
	}
}

// resolveUsingDirective binds a `using Lib for Type;` (or `using Lib for
// *;`) directive to the library contract it names, for internal/resolve's
// resolveCall to consult when desugaring `x.libFn(y)` call syntax.
func resolveUsingDirective(ns *Namespace, ud *syntax.UsingDirective, resolveTypeName func(syntax.TypeName) types.Type) *UsingDirective {
	sym, ok := ns.Global.Lookup(ud.Library)
	if !ok || sym.Kind != SymbolContract {
		ns.Bus.Errorf(diag.ErrUndeclaredIdentifier, ud.Span(), "undeclared library '"+ud.Library+"'")
		return nil
	}
	var t types.Type
	if ud.Type != nil {
		t = resolveTypeName(ud.Type)
	}
	return &UsingDirective{LibraryIndex: sym.Index, Type: t, Global: ud.Global}
}

func resolveVisibility(v string, fallback types.Visibility) types.Visibility {
	switch v {
	case "external":
		return types.External
	case "public":
		return types.Public
	case "internal":
		return types.Internal
	case "private":
		return types.Private
	default:
		return fallback
	}
}

func resolveMutability(m string) types.Mutability {
	switch m {
	case "pure":
		return types.Pure
	case "view":
		return types.View
	case "payable":
		return types.Payable
	default:
		return types.Nonpayable
	}
}

func resolveLocation(l syntax.DataLocation) types.Location {
	switch l {
	case syntax.LocationStorage:
		return types.Storage
	case syntax.LocationMemory:
		return types.Memory
	case syntax.LocationCalldata:
		return types.Calldata
	default:
		return types.NoLocation
	}
}

// propagateInheritedMembers copies members of every ancestor contract
// (beyond c itself, in linearisation order, most-derived excluded) into
// c's scope, so lookups from the most-derived contract find inherited
// functions and state variables without duplicating them in c.Functions
// (spec.md §4.1: "Propagate inherited members into each contract").
func propagateInheritedMembers(ns *Namespace, c *Contract) {
	for i := 0; i < len(c.Linearisation); i++ {
		ancestorIdx := c.Linearisation[i]
		if ancestorIdx == c.Index {
			continue
		}
		ancestor := ns.Contracts[ancestorIdx]
		for name, sym := range ancestor.Scope.All() {
			if _, exists := c.Scope.LookupLocal(name); !exists {
				c.Scope.Define(ns.Bus, &Symbol{Name: name, Kind: sym.Kind, Pos: sym.Pos, Index: sym.Index, Owner: sym.Owner})
			}
		}
	}
}

// checkConstantInitializers reports spec.md §4.1's rule: "Report attempts
// to read another state variable from a constant initialiser."
func checkConstantInitializers(ns *Namespace) {
	for _, c := range ns.Contracts {
		names := make(map[string]bool)
		for _, sv := range c.StateVars {
			names[sv.Name] = true
		}
		for _, sv := range c.StateVars {
			if !sv.Constant || sv.Init == nil {
				continue
			}
			walkExprForIdents(sv.Init, func(id *syntax.Ident) {
				if names[id.Name] && id.Name != sv.Name {
					ns.Bus.Errorf(diag.ErrConstReadsStateVar, id.Span(),
						"constant initialiser for '"+sv.Name+"' may not read state variable '"+id.Name+"'")
				}
			})
		}
	}
}

func walkExprForIdents(e syntax.Expr, visit func(*syntax.Ident)) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *syntax.Ident:
		visit(v)
	case *syntax.BinaryExpr:
		walkExprForIdents(v.Left, visit)
		walkExprForIdents(v.Right, visit)
	case *syntax.UnaryExpr:
		walkExprForIdents(v.Operand, visit)
	case *syntax.CallExpr:
		walkExprForIdents(v.Callee, visit)
		for _, a := range v.Args {
			walkExprForIdents(a, visit)
		}
	case *syntax.FieldAccessExpr:
		walkExprForIdents(v.Receiver, visit)
	case *syntax.IndexExpr:
		walkExprForIdents(v.Receiver, visit)
		walkExprForIdents(v.Index, visit)
	case *syntax.TupleExpr:
		for _, el := range v.Elements {
			walkExprForIdents(el, visit)
		}
	case *syntax.ConditionalExpr:
		walkExprForIdents(v.Cond, visit)
		walkExprForIdents(v.Then, visit)
		walkExprForIdents(v.Else, visit)
	case *syntax.CastExpr:
		walkExprForIdents(v.Operand, visit)
	}
}
