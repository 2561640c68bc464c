package syntax

// ContractKind distinguishes the four declaration forms spec.md §3 names
// ("kind (contract / interface / library / abstract)").
type ContractKind int

const (
	KindContract ContractKind = iota
	KindInterface
	KindLibrary
	KindAbstract
)

// InheritanceSpecifier is one entry in a contract's `is A(args), B` list.
type InheritanceSpecifier struct {
	base
	Name string
	Args []Expr
}

// ContractDecl is a top-level contract/interface/library/abstract-contract
// declaration.
type ContractDecl struct {
	base
	Name         string
	Kind         ContractKind
	Inherits     []InheritanceSpecifier
	Functions    []*FunctionDecl
	StateVars    []*StateVarDecl
	Events       []*EventDecl
	Structs      []*StructDecl
	Enums        []*EnumDecl
	UserTypes    []*UserTypeDecl
	UsingDirectives []*UsingDirective
}

func (*ContractDecl) declNode() {}

// FunctionKind distinguishes the five function forms spec.md §3 names.
type FunctionKind int

const (
	KindFunction FunctionKind = iota
	KindConstructor
	KindFallback
	KindReceive
	KindModifier
)

// FunctionParam is one parameter in a function's (or event's) parameter
// list: a name, a surface type, an optional data-location keyword, and —
// for events only — whether it's `indexed`.
type FunctionParam struct {
	base
	Name     string
	Type     TypeName
	Location DataLocation
	Indexed  bool
}

// ModifierInvocation is one entry in a function's modifier-invocation list,
// including base-constructor calls spelled the same way
// (`ContractName(args)` in a constructor's modifier list).
type ModifierInvocation struct {
	base
	Name string
	Args []Expr
}

// FunctionDecl is a contract-level function, constructor, fallback,
// receive, or modifier declaration.
type FunctionDecl struct {
	base
	Name       string // "" for constructor/fallback/receive
	Kind       FunctionKind
	Params     []FunctionParam
	Returns    []FunctionParam
	Mutability string // "pure" | "view" | "nonpayable" | "payable" | "" (defaults to nonpayable)
	Visibility string // "external" | "public" | "internal" | "private" | "" (defaults per kind)
	Virtual    bool
	Override   []string // explicit override(A, B) list; empty but non-nil Override means bare `override`
	IsOverride bool
	Modifiers  []ModifierInvocation
	Body       *Block // nil for an interface/abstract function with no implementation
}

func (*FunctionDecl) declNode() {}

// StateVarDecl is a contract-level storage variable declaration.
type StateVarDecl struct {
	base
	Name       string
	Type       TypeName
	Visibility string // "public" | "internal" | "private"
	Constant   bool
	Immutable  bool
	Init       Expr // nil when absent
}

func (*StateVarDecl) declNode() {}

// EventDecl is `event Name(params...) anonymous?;`.
type EventDecl struct {
	base
	Name      string
	Params    []FunctionParam
	Anonymous bool
}

func (*EventDecl) declNode() {}

// StructFieldDecl is one field in a struct declaration.
type StructFieldDecl struct {
	base
	Name string
	Type TypeName
}

// StructDecl is a top-level or contract-nested struct declaration. An
// empty Fields list must be rejected by the namespace builder (spec.md
// §4.1: "Forbid zero-field structs").
type StructDecl struct {
	base
	Name   string
	Fields []StructFieldDecl
}

func (*StructDecl) declNode() {}

// EnumMember is one member of an enum, in source order (spec.md §4.1:
// "Enums have a fixed ordinal order matching source").
type EnumMember struct {
	base
	Name string
}

// EnumDecl is a top-level or contract-nested enum declaration.
type EnumDecl struct {
	base
	Name    string
	Members []EnumMember
}

func (*EnumDecl) declNode() {}

// UserTypeDecl is `type Name is UnderlyingType;`.
type UserTypeDecl struct {
	base
	Name       string
	Underlying TypeName
}

func (*UserTypeDecl) declNode() {}

// UsingDirective is `using Lib for Type;` (or `using Lib for *;`), attaching
// a library's functions as methods on the named type.
type UsingDirective struct {
	base
	Library string
	Type    TypeName // nil for `using Lib for *`
	Global  bool
}

func (*UsingDirective) declNode() {}

// Declaration groups every top-level/contract-level declaration kind.
type Declaration interface {
	Node
	declNode()
}

// SourceUnit is the root of one parsed file: its top-level declarations in
// source order. The namespace builder consumes one or more SourceUnits
// (spec.md §4.1's "Input: the parse tree").
type SourceUnit struct {
	base
	Filename  string
	Contracts []*ContractDecl
	Structs   []*StructDecl
	Enums     []*EnumDecl
	UserTypes []*UserTypeDecl
	Using     []*UsingDirective
}
