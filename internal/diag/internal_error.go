package diag

import "github.com/pkg/errors"

// InternalError wraps a fatal internal invariant violation (spec.md §4.5:
// "Internal invariant violations ... are fatal and abort compilation with
// an internal-error diagnostic"). Unlike Diagnostic, these never accumulate
// on the Bus — the pipeline panics/returns immediately, and pkg/errors
// preserves a stack trace back to the offending call site for the crash
// report, since a bare fmt.Errorf loses that context by the time it
// bubbles up through several pipeline stages.
type InternalError struct {
	Code    string
	Message string
	cause   error
}

func (e *InternalError) Error() string { return e.Code + ": " + e.Message }

func (e *InternalError) Unwrap() error { return e.cause }

// NewInternalError constructs a stack-traced internal error.
func NewInternalError(code, message string) error {
	return errors.WithStack(&InternalError{Code: code, Message: message})
}

// Wrap attaches a stack trace to an internal error detected deeper in the
// call stack (e.g. a panic recovered in the CFG builder).
func Wrap(err error, code, message string) error {
	return errors.Wrap(&InternalError{Code: code, Message: message, cause: err}, message)
}
