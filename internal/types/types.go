// Package types implements the tagged-sum Type model from spec.md §3: a
// Go interface with one concrete struct per variant, the same shape the
// teacher's internal/ir uses for its own Type sum, generalized from a
// single-VM value model to Solidity's primitive/composite/location-qualified
// surface.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every type variant implements.
type Type interface {
	String() string
	// Equal reports structural equality. Location qualifiers are not
	// ignored: a Qualified equals only another Qualified with the same
	// Location and an equal inner type, never the bare inner type
	// (conversion rules strip the wrapper first; see unqualify).
	Equal(other Type) bool
}

// Location is the storage/memory/calldata qualifier spec.md §3 attaches to
// reference types after resolution ("dynamic collection types carry a
// location tag after resolution").
type Location int

const (
	NoLocation Location = iota
	Storage
	Memory
	Calldata
)

func (l Location) String() string {
	switch l {
	case Storage:
		return "storage"
	case Memory:
		return "memory"
	case Calldata:
		return "calldata"
	default:
		return ""
	}
}

// Bool is the boolean primitive.
type Bool struct{}

func (Bool) String() string { return "bool" }
func (Bool) Equal(o Type) bool { _, ok := o.(Bool); return ok }

// Int is a signed or unsigned integer of width Bits, a multiple of 8 in
// [8, 256] (spec.md §3 invariant: "integer width is always a multiple of
// 8 ≤ 256").
type Int struct {
	Bits   int
	Signed bool
}

func (i Int) String() string {
	prefix := "uint"
	if i.Signed {
		prefix = "int"
	}
	return fmt.Sprintf("%s%d", prefix, i.Bits)
}

func (i Int) Equal(o Type) bool {
	oi, ok := o.(Int)
	return ok && oi.Bits == i.Bits && oi.Signed == i.Signed
}

// Valid reports whether the width obeys the multiple-of-8, ≤256 invariant.
func (i Int) Valid() bool {
	return i.Bits > 0 && i.Bits <= 256 && i.Bits%8 == 0
}

// FixedBytes is bytes1..bytes32.
type FixedBytes struct {
	Width int // 1..32
}

func (f FixedBytes) String() string     { return fmt.Sprintf("bytes%d", f.Width) }
func (f FixedBytes) Equal(o Type) bool  { of, ok := o.(FixedBytes); return ok && of.Width == f.Width }

// DynamicBytes is Solidity's `bytes`.
type DynamicBytes struct{}

func (DynamicBytes) String() string    { return "bytes" }
func (DynamicBytes) Equal(o Type) bool { _, ok := o.(DynamicBytes); return ok }

// String is Solidity's `string`.
type String struct{}

func (String) String() string    { return "string" }
func (String) Equal(o Type) bool { _, ok := o.(String); return ok }

// Address is Solidity's address type; Payable marks `address payable`.
type Address struct {
	Payable bool
}

func (a Address) String() string {
	if a.Payable {
		return "address payable"
	}
	return "address"
}

func (a Address) Equal(o Type) bool {
	_, ok := o.(Address)
	// Payability is a usage-site qualifier, not a distinct type for
	// equality purposes — an address-payable value is assignable wherever
	// a plain address is. The resolver and Classify both test Equal first,
	// so no cast is required in the other direction either: address and
	// address payable convert to each other without one.
	return ok
}

// Array is a fixed- or dynamic-length array. Length == -1 means dynamic.
type Array struct {
	Element Type
	Length  int
}

func (a Array) String() string {
	if a.Length < 0 {
		return a.Element.String() + "[]"
	}
	return fmt.Sprintf("%s[%d]", a.Element.String(), a.Length)
}

func (a Array) Equal(o Type) bool {
	oa, ok := o.(Array)
	return ok && oa.Length == a.Length && typesEqual(oa.Element, a.Element)
}

// IsDynamic reports whether this is a dynamic-length array.
func (a Array) IsDynamic() bool { return a.Length < 0 }

// Mapping is `mapping(Key => Value)`. Only valid in storage position
// (spec.md §3 invariant).
type Mapping struct {
	Key   Type
	Value Type
}

func (m Mapping) String() string {
	return fmt.Sprintf("mapping(%s => %s)", m.Key.String(), m.Value.String())
}

func (m Mapping) Equal(o Type) bool {
	om, ok := o.(Mapping)
	return ok && typesEqual(om.Key, m.Key) && typesEqual(om.Value, m.Value)
}

// StructRef refers to a struct declaration by its resolved index rather
// than embedding the declaration, matching the teacher's flat-slice,
// index-referencing approach to avoiding cyclic ownership (spec.md's
// "struct reference by index").
type StructRef struct {
	Index int
	Name  string // carried for diagnostics/printing only; not compared
}

func (s StructRef) String() string { return s.Name }
func (s StructRef) Equal(o Type) bool {
	os, ok := o.(StructRef)
	return ok && os.Index == s.Index
}

// EnumRef refers to an enum declaration by resolved index.
type EnumRef struct {
	Index int
	Name  string
}

func (e EnumRef) String() string { return e.Name }
func (e EnumRef) Equal(o Type) bool {
	oe, ok := o.(EnumRef)
	return ok && oe.Index == e.Index
}

// UserTypeAlias is a Solidity `type T is <underlying>` alias.
type UserTypeAlias struct {
	Index      int
	Name       string
	Underlying Type
}

func (u UserTypeAlias) String() string { return u.Name }
func (u UserTypeAlias) Equal(o Type) bool {
	ou, ok := o.(UserTypeAlias)
	return ok && ou.Index == u.Index
}

// Mutability is the four-point lattice spec.md §4.2 checks function bodies
// against: pure < view < nonpayable/payable. Nonpayable and payable are
// incomparable siblings above view (payable additionally permits receiving
// value; neither is "more observant" than the other).
type Mutability int

const (
	Pure Mutability = iota
	View
	Nonpayable
	Payable
)

func (m Mutability) String() string {
	switch m {
	case Pure:
		return "pure"
	case View:
		return "view"
	case Nonpayable:
		return "nonpayable"
	case Payable:
		return "payable"
	default:
		return "unknown"
	}
}

// AtLeast reports whether m permits an effect of the given severity.
// Nonpayable permits everything View does, Payable permits everything
// Nonpayable does, plus receiving value; View itself is not "weaker" than
// Nonpayable in the value-receiving axis, so the ordering is only a total
// order along pure<view<nonpayable, with payable as an add-on to
// nonpayable — modeled here as payable also dominating nonpayable so that
// a payable function may still do anything a nonpayable one can.
func (m Mutability) AtLeast(required Mutability) bool {
	rank := func(x Mutability) int {
		switch x {
		case Pure:
			return 0
		case View:
			return 1
		case Nonpayable:
			return 2
		case Payable:
			return 2 // same plane as nonpayable; payable adds value-acceptance, not state-effect severity
		}
		return 0
	}
	return rank(m) >= rank(required)
}

// Visibility is a function's call-site exposure.
type Visibility int

const (
	Private Visibility = iota
	Internal
	Public
	External
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Internal:
		return "internal"
	case Public:
		return "public"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// MoreOrEquallyPermissive reports whether v exposes at least as much as
// other (spec.md §4.2: "an overriding function must be at least as
// permissive in visibility").
func (v Visibility) MoreOrEquallyPermissive(other Visibility) bool {
	rank := func(x Visibility) int {
		switch x {
		case Private:
			return 0
		case Internal:
			return 1
		case Public:
			return 3
		case External:
			return 2
		}
		return 0
	}
	return rank(v) >= rank(other)
}

// Function is a function-reference type: parameter types, return types,
// mutability and visibility (spec.md §3).
type Function struct {
	Params     []Type
	Returns    []Type
	Mutability Mutability
	Visibility Visibility
}

func (f Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	returns := make([]string, len(f.Returns))
	for i, r := range f.Returns {
		returns[i] = r.String()
	}
	s := fmt.Sprintf("function(%s) %s %s", strings.Join(params, ", "), f.Visibility, f.Mutability)
	if len(returns) > 0 {
		s += " returns (" + strings.Join(returns, ", ") + ")"
	}
	return s
}

func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) || len(of.Returns) != len(f.Returns) {
		return false
	}
	for i := range f.Params {
		if !typesEqual(of.Params[i], f.Params[i]) {
			return false
		}
	}
	for i := range f.Returns {
		if !typesEqual(of.Returns[i], f.Returns[i]) {
			return false
		}
	}
	return of.Mutability == f.Mutability && of.Visibility == f.Visibility
}

// Qualified wraps a reference type with the storage/memory/calldata
// location tag spec.md §3 requires after resolution. Value types (Bool,
// Int, FixedBytes, Address) are never wrapped — only arrays, mappings,
// structs, strings and dynamic bytes carry a location.
type Qualified struct {
	Inner    Type
	Location Location
}

func (q Qualified) String() string {
	if q.Location == NoLocation {
		return q.Inner.String()
	}
	return q.Inner.String() + " " + q.Location.String()
}

func (q Qualified) Equal(o Type) bool {
	oq, ok := o.(Qualified)
	return ok && oq.Location == q.Location && typesEqual(oq.Inner, q.Inner)
}

// RequiresLocation reports whether t must be wrapped in a Qualified before
// it is valid in a non-storage-literal position (spec.md §3: "dynamic
// collection types carry a location tag after resolution").
func RequiresLocation(t Type) bool {
	switch t.(type) {
	case Array, Mapping, StructRef, String, DynamicBytes:
		return true
	default:
		return false
	}
}

// OnlyValidInStorage reports whether t may only ever appear in storage
// position (spec.md §3 invariant: "storage types are only valid in storage
// position"). Mappings, and arrays/structs that transitively contain one,
// can never be instantiated in memory or calldata.
func OnlyValidInStorage(t Type) bool {
	switch v := t.(type) {
	case Mapping:
		return true
	case Array:
		return OnlyValidInStorage(v.Element)
	case Qualified:
		return OnlyValidInStorage(v.Inner)
	default:
		return false
	}
}

// IsMappingOrArray reports whether t (after unwrapping a Qualified
// location tag) is a mapping or array — the two composite shapes
// Solidity's implicit public-getter synthesis skips when flattening a
// struct-typed state variable's fields into separate return values
// (spec.md §4.1's public-getter rule).
func IsMappingOrArray(t Type) bool {
	switch v := t.(type) {
	case Mapping, Array:
		_ = v
		return true
	case Qualified:
		return IsMappingOrArray(v.Inner)
	default:
		return false
	}
}

// Void is the unit return type of functions with no return values.
type Void struct{}

func (Void) String() string    { return "void" }
func (Void) Equal(o Type) bool { _, ok := o.(Void); return ok }

// Tuple is the type of a multi-value expression: a function call with more
// than one return value, or a parenthesized tuple literal.
type Tuple struct {
	Elements []Type
}

func (t Tuple) String() string {
	s := "("
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

func (t Tuple) Equal(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok || len(ot.Elements) != len(t.Elements) {
		return false
	}
	for i, e := range t.Elements {
		if !typesEqual(e, ot.Elements[i]) {
			return false
		}
	}
	return true
}

// TupleOf builds the type of a multi-value expression. A single element
// collapses to itself rather than a one-element Tuple.
func TupleOf(elements []Type) Type {
	if len(elements) == 1 {
		return elements[0]
	}
	return Tuple{Elements: elements}
}

func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
