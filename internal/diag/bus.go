// Package diag implements the compiler's diagnostics bus: an append-only,
// location-tagged collector shared by every later pipeline stage (spec.md
// §2 stage 1). It drives the compile/reject decision described in spec.md
// §7: a run emits every collected diagnostic at the end, and the driver
// refuses to hand a namespace to emitters if any diagnostic is error-level
// or worse.
package diag

import (
	"sort"

	"github.com/segmentio/ksuid"
)

// Level is diagnostic severity, matching spec.md §7's note/warning/error.
type Level int

const (
	Note Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one structured compiler message: a level, a code, a primary
// span, and optional secondary spans (e.g. the location of a previous
// declaration for a redeclaration error, spec.md §7).
type Diagnostic struct {
	Level     Level
	Code      string
	Message   string
	Primary   Span
	Secondary []Span
	Notes     []string
}

// Bus is the append-only diagnostics collector. Every stage of the pipeline
// receives it by reference and appends to it; nothing is ever removed.
// Internal invariant violations never reach the bus — they are fatal and
// abort the pipeline immediately (spec.md §4.5/§7).
type Bus struct {
	UnitID       ksuid.KSUID
	diagnostics  []Diagnostic
	errorCount   int
	warningCount int
}

// NewBus creates a diagnostics bus tagged with a fresh compilation-unit id,
// so that diagnostics from independently-compiled units can be told apart
// after per-unit buses are merged (spec.md §5).
func NewBus() *Bus {
	return &Bus{UnitID: ksuid.New()}
}

// Report appends a diagnostic. The offending AST node is expected to already
// have been replaced with an error-typed placeholder by the caller so that
// downstream passes can continue (spec.md §7 propagation policy).
func (b *Bus) Report(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
	switch d.Level {
	case Error:
		b.errorCount++
	case Warning:
		b.warningCount++
	}
}

// Errorf is a convenience wrapper for the common single-span error case.
func (b *Bus) Errorf(code string, primary Span, message string) {
	b.Report(Diagnostic{Level: Error, Code: code, Message: message, Primary: primary})
}

// Warnf is a convenience wrapper for the common single-span warning case.
func (b *Bus) Warnf(code string, primary Span, message string) {
	b.Report(Diagnostic{Level: Warning, Code: code, Message: message, Primary: primary})
}

// HasErrors reports whether any diagnostic at error level or worse has been
// collected. The driver must not produce target output when this is true.
func (b *Bus) HasErrors() bool {
	return b.errorCount > 0
}

// Diagnostics returns all collected diagnostics in source order grouped by
// file, as spec.md §7 requires for user-visible output.
func (b *Bus) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Primary.Position, out[j].Primary.Position
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return out
}

// Merge appends another bus's diagnostics into this one, used by the
// parallel-compilation driver (spec.md §5: "each unit writing to its own
// bus that is merged at the end"). The caller is responsible for
// serializing concurrent merges (see internal/pipeline).
func (b *Bus) Merge(other *Bus) {
	b.diagnostics = append(b.diagnostics, other.diagnostics...)
	b.errorCount += other.errorCount
	b.warningCount += other.warningCount
}
