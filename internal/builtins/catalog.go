// Package builtins catalogs the Solidity global names the resolver makes
// available without an import: the msg/block/tx context properties, the
// cryptographic free functions, the abi encode/decode helpers, and the
// require/assert/revert/selfdestruct control builtins. Modeled on the
// teacher's internal/stdlib module-definition catalog, generalized from a
// handful of generic container modules to Solidity's fixed global surface.
package builtins

import "solcore/internal/types"

// Property is a context value accessed without a call, like msg.sender.
type Property struct {
	Path   string
	Type   types.Type
	Effect types.Mutability
	// PayableOnly marks properties (msg.value) that are only legal to read
	// inside a payable function body — a stricter constraint than the
	// pure<view<nonpayable/payable lattice alone can express, since
	// nonpayable functions may do everything view can but still must not
	// observe msg.value (spec.md §4.2's mutability state machine, read
	// together with Solidity's payability rule).
	PayableOnly bool
}

// Function is a builtin callable: msg/tx have none, block has none, but
// keccak256/sha256/ripemd160/ecrecover/abi.*/require/assert/revert/
// selfdestruct are all free functions.
type Function struct {
	Path     string
	Params   []types.Type
	Variadic bool // abi.encode/abi.encodePacked accept any argument count
	Returns  []types.Type
	Effect   types.Mutability
}

var (
	bytes32 = types.FixedBytes{Width: 32}
	uint8T  = types.Int{Bits: 8, Signed: false}
	uint256 = types.Int{Bits: 256, Signed: false}
	addrT   = types.Address{}
	boolT   = types.Bool{}
	bytesT  = types.DynamicBytes{}
)

// Properties lists every context property keyed by its dotted path
// ("msg.sender", "block.timestamp", ...).
var Properties = map[string]Property{
	"msg.sender":  {Path: "msg.sender", Type: addrT, Effect: types.View},
	"msg.value":   {Path: "msg.value", Type: uint256, Effect: types.Payable, PayableOnly: true},
	"msg.data":    {Path: "msg.data", Type: bytesT, Effect: types.View},
	"msg.sig":     {Path: "msg.sig", Type: types.FixedBytes{Width: 4}, Effect: types.View},
	"tx.origin":   {Path: "tx.origin", Type: addrT, Effect: types.View},
	"tx.gasprice": {Path: "tx.gasprice", Type: uint256, Effect: types.View},

	"block.timestamp":  {Path: "block.timestamp", Type: uint256, Effect: types.View},
	"block.number":     {Path: "block.number", Type: uint256, Effect: types.View},
	"block.coinbase":   {Path: "block.coinbase", Type: addrT, Effect: types.View},
	"block.difficulty": {Path: "block.difficulty", Type: uint256, Effect: types.View},
	"block.gaslimit":   {Path: "block.gaslimit", Type: uint256, Effect: types.View},
	"block.chainid":    {Path: "block.chainid", Type: uint256, Effect: types.View},
}

// Functions lists every builtin free function keyed by its dotted/bare
// name ("keccak256", "abi.encode", "require", ...).
var Functions = map[string]Function{
	"keccak256":  {Path: "keccak256", Params: []types.Type{bytesT}, Returns: []types.Type{bytes32}, Effect: types.Pure},
	"sha256":     {Path: "sha256", Params: []types.Type{bytesT}, Returns: []types.Type{bytes32}, Effect: types.Pure},
	"ripemd160":  {Path: "ripemd160", Params: []types.Type{bytesT}, Returns: []types.Type{types.FixedBytes{Width: 20}}, Effect: types.Pure},
	"ecrecover": {
		Path:    "ecrecover",
		Params:  []types.Type{bytes32, uint8T, bytes32, bytes32},
		Returns: []types.Type{addrT},
		Effect:  types.Pure,
	},

	"abi.encode":       {Path: "abi.encode", Variadic: true, Returns: []types.Type{bytesT}, Effect: types.Pure},
	"abi.encodePacked": {Path: "abi.encodePacked", Variadic: true, Returns: []types.Type{bytesT}, Effect: types.Pure},
	"abi.decode":       {Path: "abi.decode", Variadic: true, Effect: types.Pure}, // return types depend on the call-site type-list argument
	"abi.encodeWithSelector": {
		Path: "abi.encodeWithSelector", Variadic: true, Returns: []types.Type{bytesT}, Effect: types.Pure,
	},

	"require":      {Path: "require", Variadic: true, Returns: nil, Effect: types.Pure},
	"assert":       {Path: "assert", Params: []types.Type{boolT}, Returns: nil, Effect: types.Pure},
	"revert":       {Path: "revert", Variadic: true, Returns: nil, Effect: types.Pure},
	"selfdestruct": {Path: "selfdestruct", Params: []types.Type{types.Address{Payable: true}}, Returns: nil, Effect: types.Nonpayable},

	"addmod": {Path: "addmod", Params: []types.Type{uint256, uint256, uint256}, Returns: []types.Type{uint256}, Effect: types.Pure},
	"mulmod": {Path: "mulmod", Params: []types.Type{uint256, uint256, uint256}, Returns: []types.Type{uint256}, Effect: types.Pure},
}

// LookupProperty resolves a dotted context-property path.
func LookupProperty(path string) (Property, bool) {
	p, ok := Properties[path]
	return p, ok
}

// LookupFunction resolves a builtin free function by its bare or
// dotted name.
func LookupFunction(name string) (Function, bool) {
	f, ok := Functions[name]
	return f, ok
}

// address member functions: addr.balance, addr.code, addr.transfer(uint),
// addr.send(uint) -> bool, addr.call(bytes) -> (bool, bytes), and their
// .call/.delegatecall/.staticcall variants. Modeled separately from the
// free-function catalog because they're resolved off an address-typed
// receiver rather than a bare name.
type AddressMember struct {
	Name    string
	Params  []types.Type
	Returns []types.Type
	Effect  types.Mutability
	// RequiresPayableReceiver restricts the member to `address payable`
	// receivers (transfer/send move value out, so the address type itself
	// must assert it can receive from; this is independent of the calling
	// function's own mutability).
	RequiresPayableReceiver bool
}

var AddressMembers = map[string]AddressMember{
	"balance": {Name: "balance", Returns: []types.Type{uint256}, Effect: types.View},
	"code":    {Name: "code", Returns: []types.Type{bytesT}, Effect: types.View},
	"codehash": {Name: "codehash", Returns: []types.Type{bytes32}, Effect: types.View},
	"transfer": {
		Name: "transfer", Params: []types.Type{uint256}, Returns: nil,
		Effect: types.Nonpayable, RequiresPayableReceiver: true,
	},
	"send": {
		Name: "send", Params: []types.Type{uint256}, Returns: []types.Type{boolT},
		Effect: types.Nonpayable, RequiresPayableReceiver: true,
	},
	"call":           {Name: "call", Params: []types.Type{bytesT}, Returns: []types.Type{boolT, bytesT}, Effect: types.Nonpayable},
	"delegatecall":   {Name: "delegatecall", Params: []types.Type{bytesT}, Returns: []types.Type{boolT, bytesT}, Effect: types.Nonpayable},
	"staticcall":     {Name: "staticcall", Params: []types.Type{bytesT}, Returns: []types.Type{boolT, bytesT}, Effect: types.View},
}

// LookupAddressMember resolves `<address-expr>.<name>`.
func LookupAddressMember(name string) (AddressMember, bool) {
	m, ok := AddressMembers[name]
	return m, ok
}
