// Package diagnostics collects compile-time and run-time errors reported
// while a Quill program is scanned, parsed and executed, and renders them
// with source context for the terminal.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/orizon-lang/quill/internal/position"
)

// Kind separates problems found before execution from those raised by it.
type Kind int

const (
	Compile Kind = iota
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Compile:
		return "compile"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Span    position.Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s error: %s", d.Span, d.Kind, d.Message)
}

// Manager is the diagnostics sink threaded through lexing, parsing and
// evaluation. It is not safe for concurrent use; concurrent pipelines use
// one Manager each.
type Manager struct {
	diagnostics []Diagnostic
	counts      map[Kind]int
	file        *position.SourceFile
}

// NewManager creates a sink for diagnostics about file. file may be nil, in
// which case diagnostics are rendered with byte offsets only.
func NewManager(file *position.SourceFile) *Manager {
	return &Manager{
		counts: make(map[Kind]int),
		file:   file,
	}
}

// Source returns the file the diagnostics refer to, or nil.
func (m *Manager) Source() *position.SourceFile {
	return m.file
}

// Report records a diagnostic.
func (m *Manager) Report(kind Kind, span position.Span, message string) {
	m.diagnostics = append(m.diagnostics, Diagnostic{
		Kind:    kind,
		Span:    span,
		Message: message,
	})
	m.counts[kind]++
}

// Reportf records a diagnostic with a formatted message.
func (m *Manager) Reportf(kind Kind, span position.Span, format string, args ...interface{}) {
	m.Report(kind, span, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any diagnostic of kind was recorded.
func (m *Manager) HasErrors(kind Kind) bool {
	return m.counts[kind] > 0
}

// Count returns the number of diagnostics of kind.
func (m *Manager) Count(kind Kind) int {
	return m.counts[kind]
}

// Diagnostics returns the recorded diagnostics of the given kinds in report
// order. With no kinds, every diagnostic is returned.
func (m *Manager) Diagnostics(kinds ...Kind) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range m.diagnostics {
		if matchesKind(d.Kind, kinds) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// Display writes every diagnostic of each requested kind to w. Kinds are
// written one after another, never interleaved.
func (m *Manager) Display(w io.Writer, colorize bool, kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = []Kind{Compile, Runtime}
	}
	for _, kind := range kinds {
		for _, d := range m.Diagnostics(kind) {
			if _, err := io.WriteString(w, m.FormatDiagnostic(d, colorize)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatDiagnostic formats a diagnostic for display
func (m *Manager) FormatDiagnostic(d Diagnostic, colorize bool) string {
	var result strings.Builder

	header := paint(colorize, color.FgRed, color.Bold)
	gutter := paint(colorize, color.FgBlue)

	result.WriteString(header(d.Kind.String() + " error"))
	result.WriteString(": " + d.Message + "\n")

	if m.file == nil {
		result.WriteString(gutter("  --> ") + fmt.Sprintf("offset %d\n", d.Span.Start))
		return result.String()
	}

	start := m.file.PositionFromOffset(d.Span.Start)
	name := m.file.Filename
	if name == "" {
		name = "<input>"
	}
	result.WriteString(gutter("  --> ") + fmt.Sprintf("%s:%d:%d\n", name, start.Line, start.Column))
	result.WriteString(position.NewSpanHighlighter(m.file).HighlightSpan(d.Span))

	return result.String()
}

// FormatSummary formats a one-line summary of all diagnostics
func (m *Manager) FormatSummary() string {
	if len(m.diagnostics) == 0 {
		return "No diagnostics."
	}
	return fmt.Sprintf("Found %d compile error(s) and %d runtime error(s).",
		m.counts[Compile], m.counts[Runtime])
}

// paint returns a formatter for attrs, or an identity formatter when
// colorize is false.
func paint(colorize bool, attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func matchesKind(kind Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
