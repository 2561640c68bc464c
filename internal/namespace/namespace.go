package namespace

import (
	"solcore/internal/diag"
	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

// Namespace is the root entity spec.md §3 describes: an ordered list of
// contracts, program-global structs/enums/user-types/using-directives, a
// target descriptor, a shared symbol table, and the diagnostics list. Once
// built, definitions are never destroyed — only annotated (spec.md §3
// "Lifecycles").
type Namespace struct {
	Contracts []*Contract
	Structs   []*Struct
	Enums     []*Enum
	UserTypes []*UserType
	Using     []*UsingDirective

	Target target.Descriptor
	Global *SymbolTable
	Bus    *diag.Bus
}

// ContractKind mirrors syntax.ContractKind after resolution.
type ContractKind = syntax.ContractKind

// Contract is one contract/interface/library/abstract-contract
// declaration, fully linearised.
type Contract struct {
	Name  string
	Index int
	Kind  ContractKind
	Pos   diag.Span
	Scope *SymbolTable // contract-local scope, parented to Namespace.Global

	// Bases holds the declared (unlinearised) base-contract indices in
	// source order; Linearisation holds the C3-computed MRO, most-derived
	// first, so it starts with this contract's own index.
	Bases         []int
	Linearisation []int

	Functions  []*Function
	StateVars  []*StateVariable
	Events     []*Event
	Structs    []*Struct
	Enums      []*Enum
	Using      []*UsingDirective

	// Initializer is the index into Functions of the designated
	// constructor, or -1 if the contract has none (spec.md §3).
	Initializer int
}

// FunctionKind mirrors syntax.FunctionKind.
type FunctionKind = syntax.FunctionKind

// Parameter is a function parameter or return value, post name/type
// resolution.
type Parameter struct {
	Name     string
	Type     types.Type
	Location types.Location
	Indexed  bool
	Pos      diag.Span
}

// BaseConstructorCall is one entry in a constructor's base-contract call
// list (spec.md §3: "list of base-contract constructor calls").
type BaseConstructorCall struct {
	ContractIndex int
	Args          []syntax.Expr
}

// Function is one function/constructor/fallback/receive/modifier
// declaration. Body starts as the unresolved statement tree and is
// replaced by a CFG once internal/cfg has run (spec.md §3 "Function").
type Function struct {
	Name       string
	Index      int
	Pos        diag.Span
	Owner      int // index into Namespace.Contracts
	Params     []Parameter
	Returns    []Parameter
	Mutability types.Mutability
	Visibility types.Visibility
	Kind       FunctionKind
	BaseCalls  []BaseConstructorCall
	Virtual    bool
	OverridesFrom []int // contract indices this function overrides, per the linearisation

	Body    *syntax.Block // resolved CFG replaces interpretation of this in internal/cfg
	Builtin bool          // interface/abstract functions with no body

	// ImplicitGetter and GetterOf mark a function synthesized by
	// SynthesizeGetters for a public state variable rather than declared
	// in source (spec.md §4.1, §8 scenario 6); GetterOf indexes Owner's
	// StateVars. ExportName is the target-specific accessor name emitters
	// use for host exports (see getters.go); Name remains the plain
	// Solidity identifier ABI selector hashing always uses.
	ImplicitGetter bool
	GetterOf       int
	ExportName     string
}

// StateVariable is a contract storage variable: its type, storage slot,
// optional packing offset within that slot, and optional initialiser.
type StateVariable struct {
	Name       string
	Index      int
	Pos        diag.Span
	Type       types.Type
	Visibility types.Visibility
	Constant   bool
	Immutable  bool
	Init       syntax.Expr

	// Slot and Offset are assigned by AssignStorageLayout; Offset is a
	// byte offset within Slot for packed variables, and SizeBytes is the
	// variable's packed footprint (spec.md §4.1: "storage slots (ordered,
	// packed where the target permits)").
	Slot      int
	Offset    int
	SizeBytes int
}

// Event is an `event` declaration.
type Event struct {
	Name      string
	Index     int
	Pos       diag.Span
	Params    []Parameter
	Anonymous bool
}

// Struct is a struct declaration, resolved to its field types.
type Struct struct {
	Name   string
	Index  int
	Pos    diag.Span
	Fields []StructField
}

// StructField is one resolved struct field.
type StructField struct {
	Name string
	Type types.Type
	Pos  diag.Span
}

// Enum is an enum declaration; members keep source order (spec.md §4.1).
type Enum struct {
	Name    string
	Index   int
	Pos     diag.Span
	Members []string
}

// UserType is a `type T is Underlying;` alias declaration.
type UserType struct {
	Name       string
	Index      int
	Pos        diag.Span
	Underlying types.Type
}

// UsingDirective is a resolved `using Lib for Type;` (or `for *`) binding.
type UsingDirective struct {
	LibraryIndex int
	Type         types.Type // nil for `using Lib for *`
	Global       bool
}

// New creates an empty namespace ready for the builder to populate.
func New(t target.Descriptor) *Namespace {
	return &Namespace{
		Target: t,
		Global: NewSymbolTable(nil),
		Bus:    diag.NewBus(),
	}
}
