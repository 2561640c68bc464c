package syntax

// TypeName is the surface-syntax type sum: what the parser hands the
// namespace builder before any resolution happens. Distinct from
// internal/types.Type, which is the *resolved* type model — TypeName still
// carries unresolved names ("Foo", "mapping(address => uint256)") and no
// location qualifier has yet been validated against the invariants in
// spec.md §3.
type TypeName interface {
	Node
	typeNameNode()
}

// ElementaryTypeName covers bool, the integer family, the bytesN family,
// bytes, string and address(/payable).
type ElementaryTypeName struct {
	base
	Name string // "bool", "uint256", "bytes32", "bytes", "string", "address", "address payable"
}

func (*ElementaryTypeName) typeNameNode() {}

// ArrayTypeName is `Element[]` or `Element[Length]`; Length is nil for a
// dynamic array.
type ArrayTypeName struct {
	base
	Element TypeName
	Length  Expr // nil => dynamic
}

func (*ArrayTypeName) typeNameNode() {}

// MappingTypeName is `mapping(Key => Value)`.
type MappingTypeName struct {
	base
	Key   TypeName
	Value TypeName
}

func (*MappingTypeName) typeNameNode() {}

// UserDefinedTypeName refers to a struct, enum, contract, interface or
// `type ... is ...` alias by (possibly qualified) name; resolved later by
// the namespace builder.
type UserDefinedTypeName struct {
	base
	Path []string // e.g. ["Lib", "Item"] for Lib.Item
}

func (*UserDefinedTypeName) typeNameNode() {}

// FunctionTypeName is `function(T...) <visibility> <mutability> returns (T...)`.
type FunctionTypeName struct {
	base
	Params     []TypeName
	Returns    []TypeName
	Visibility string
	Mutability string
}

func (*FunctionTypeName) typeNameNode() {}

// DataLocation is the location keyword as written in source, before the
// namespace builder converts it into a types.Location.
type DataLocation int

const (
	LocationNone DataLocation = iota
	LocationStorage
	LocationMemory
	LocationCalldata
)

// QualifiedTypeName pairs a TypeName with the data-location keyword the
// source attached to it.
type QualifiedTypeName struct {
	base
	Inner    TypeName
	Location DataLocation
}

func (*QualifiedTypeName) typeNameNode() {}
