package types

// ConversionKind classifies how (or whether) a value of type From may be
// used where a value of type To is expected, per spec.md §4.2.
type ConversionKind int

const (
	// NoConversion means From and To are already the same type.
	NoConversion ConversionKind = iota
	// Implicit means the conversion is information-preserving and the
	// resolver inserts it silently.
	Implicit
	// RequiresExplicitCast means the resolver must see (and emits, if
	// missing, a diagnostic demanding) an explicit Cast expression node.
	RequiresExplicitCast
	// Illegal means no cast, explicit or otherwise, makes this conversion
	// valid (e.g. mapping to anything).
	Illegal
)

// Classify determines the conversion relationship from `from` to `to`,
// implementing spec.md §4.2's implicit-conversion rule: "widening integer
// conversions of equal signedness; uintN → uintM with M ≥ N; address ↔
// uint160 only with explicit cast; bytesN → bytesM only with M ≥ N
// (right-padded). All other cross-type uses require an explicit
// conversion."
func Classify(from, to Type) ConversionKind {
	from = unqualify(from)
	to = unqualify(to)

	if typesEqual(from, to) {
		return NoConversion
	}

	switch f := from.(type) {
	case Int:
		if t, ok := to.(Int); ok {
			if f.Signed == t.Signed && t.Bits >= f.Bits {
				return Implicit
			}
			return RequiresExplicitCast
		}
		if _, ok := to.(Address); ok && !f.Signed && f.Bits == 160 {
			return RequiresExplicitCast
		}
		return Illegal

	case Address:
		if t, ok := to.(Int); ok && !t.Signed && t.Bits == 160 {
			return RequiresExplicitCast
		}
		if _, ok := to.(Address); ok {
			// Not reached for two Address values: typesEqual above has
			// already returned NoConversion, since Address.Equal ignores
			// Payable.
			return RequiresExplicitCast
		}
		return Illegal

	case FixedBytes:
		if t, ok := to.(FixedBytes); ok {
			if t.Width >= f.Width {
				return Implicit
			}
			return RequiresExplicitCast
		}
		return Illegal

	case Bool:
		return Illegal

	case String, DynamicBytes:
		return Illegal

	default:
		return Illegal
	}
}

// unqualify strips a Qualified wrapper so conversion rules operate on the
// underlying value/reference type; location compatibility is the CFG
// builder's concern (copy semantics), not the type-conversion lattice.
func unqualify(t Type) Type {
	if q, ok := t.(Qualified); ok {
		return q.Inner
	}
	return t
}

// ArithmeticResult computes the result type of a binary arithmetic
// operation per spec.md §4.2: "pick the wider of the two operand widths;
// result width equals that maximum; signedness must match (mixed signs
// require explicit cast)." ok is false when the signedness mismatches and
// an explicit cast is required first.
func ArithmeticResult(lhs, rhs Int) (result Int, ok bool) {
	if lhs.Signed != rhs.Signed {
		return Int{}, false
	}
	width := lhs.Bits
	if rhs.Bits > width {
		width = rhs.Bits
	}
	return Int{Bits: width, Signed: lhs.Signed}, true
}

// ValidShiftAmount reports whether a shift-amount type is acceptable:
// spec.md §4.2 "shift amounts may be unsigned and ≤ 256" — here "≤256"
// qualifies the bit width of the amount's type, not its runtime value.
func ValidShiftAmount(amount Int) bool {
	return !amount.Signed && amount.Bits <= 256
}
