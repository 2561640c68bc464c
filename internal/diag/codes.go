package diag

// Error code ranges, carried over from the teacher's convention
// (internal/errors/codes.go) and remapped onto spec.md §7's taxonomy.
//
// E0001-E0099: name/resolution errors
// E0100-E0199: type errors
// E0200-E0299: mutability/visibility errors
// E0300-E0399: semantic policy errors
// E0400-E0499: contract/inheritance structural errors
// E0500-E0599: internal invariant errors (always fatal, see Internal)
// W0001-W0099: warnings

const (
	// Name/resolution (spec.md §7 "Name/resolution")
	ErrUndeclaredIdentifier = "E0001"
	ErrRedeclaration        = "E0002"
	ErrDuplicateStructField = "E0003"
	ErrAmbiguousImport      = "E0004"
	ErrInheritanceCycle     = "E0005"
	ErrLinearisationFailure = "E0006"

	// Type (spec.md §7 "Type")
	ErrIllegalConversion     = "E0100"
	ErrWidthMismatch         = "E0101"
	ErrSignednessMismatch    = "E0102"
	ErrLocationQualifier     = "E0103"
	ErrNotCallable           = "E0104"
	ErrUnknownType           = "E0105"
	ErrArgumentCountMismatch = "E0106"

	// Mutability/visibility (spec.md §7)
	ErrPureWritesStorage        = "E0200"
	ErrInternalCalledExternally = "E0201"
	ErrPayableOnlyInNonPayable  = "E0202"
	ErrMutabilityWidens         = "E0203"
	ErrVisibilityNarrows        = "E0204"
	ErrOverrideSelectorMismatch = "E0205"

	// Semantic policy (spec.md §7)
	ErrConstructorInLibrary   = "E0300"
	ErrPayableInLibrary       = "E0301"
	ErrUnreachableStatement   = "E0302"
	ErrConstReadsStateVar     = "E0303"
	ErrReadBeforeDeclaration  = "E0304"
	ErrEmptyStruct            = "E0305"
	ErrLibraryAsBaseContract  = "E0306"
	ErrLibraryHasBaseContract = "E0307"
	ErrBreakOutsideLoop       = "E0308"
	ErrIntegerOverflow        = "E0309"
	ErrLiteralOutOfRange      = "E0310"

	// Contract/inheritance structural (spec.md §3, §4.1)
	ErrDuplicateDefinition = "E0400"
	ErrMissingInitializer  = "E0401"

	// Internal invariant violations (spec.md §4.5/§7) — always fatal.
	ErrInternalFrozenBlockAppend = "E0500"
	ErrInternalMissingTerminator = "E0501"
	ErrInternalDanglingVarID     = "E0502"

	// Warnings
	WarnShadowedParameter = "W0001"
	WarnUnusedVariable    = "W0002"
)

// IsWarning reports whether a code is in the warning range.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// IsInternal reports whether a code denotes a fatal internal invariant
// violation rather than a recoverable, collectable diagnostic.
func IsInternal(code string) bool {
	return code >= "E0500" && code < "E0600"
}
