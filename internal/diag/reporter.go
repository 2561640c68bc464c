package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Reporter renders diagnostics in the Rust-style banner the teacher's
// internal/errors/reporter.go used, generalized to size its underline to
// the real terminal width instead of a hardcoded minimum.
type Reporter struct {
	source map[string][]string // filename -> lines, lazily populated
}

// NewReporter creates a reporter. Sources are supplied per-file via
// AddSource so a reporter can render diagnostics spanning several files
// (spec.md §7: "grouped by file").
func NewReporter() *Reporter {
	return &Reporter{source: make(map[string][]string)}
}

// AddSource registers a file's contents so the reporter can print context
// lines around a diagnostic's primary span.
func (r *Reporter) AddSource(filename, contents string) {
	r.source[filename] = strings.Split(contents, "\n")
}

// Render formats all diagnostics on a bus, source-ordered and grouped by
// file, into a single string ready to print.
func (r *Reporter) Render(b *Bus) string {
	var out strings.Builder
	for _, d := range b.Diagnostics() {
		out.WriteString(r.renderOne(d))
	}
	return out.String()
}

func (r *Reporter) renderOne(d Diagnostic) string {
	var out strings.Builder

	levelColor := r.levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		out.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(d.Level.String()), d.Code, d.Message))
	} else {
		out.WriteString(fmt.Sprintf("%s: %s\n", levelColor(d.Level.String()), d.Message))
	}

	pos := d.Primary.Position
	width := r.lineNumberWidth(pos.Line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), pos.String()))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	lines := r.source[pos.Filename]
	if pos.Line > 0 && pos.Line <= len(lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, pos.Line)), dim("│"), lines[pos.Line-1]))
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), r.marker(pos.Column, d.Primary.Length, d.Level)))
	}

	for _, s := range d.Secondary {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), dim("note:"), s.Label+" ("+s.Position.String()+")"))
	}
	for _, n := range d.Notes {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), color.New(color.FgBlue).Sprint("note:"), n))
	}
	out.WriteString("\n")
	return out.String()
}

func (r *Reporter) levelColor(l Level) func(...interface{}) string {
	switch l {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	}
}

func (r *Reporter) marker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	// Clamp the underline to the real terminal width where one is
	// available; falls back to the unclamped length (e.g. when piped).
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && column+length > w {
		if column < w {
			length = w - column
		}
	}
	spaces := strings.Repeat(" ", max0(column-1))
	markerChar := "^"
	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	return spaces + markerColor(strings.Repeat(markerChar, length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		w = 3
	}
	return w
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
