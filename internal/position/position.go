// Package position provides source position tracking for Quill programs.
// Tokens and syntax nodes carry compact offset spans; a SourceFile turns
// those back into line and column information when diagnostics are shown.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Position represents a single resolved point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span locates a token or node as a byte range of the source text.
type Span struct {
	Start  int // 0-based byte offset (inclusive)
	Length int // number of bytes covered
}

// NewSpan builds the span covering [start, end).
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the exclusive end offset
func (s Span) End() int {
	return s.Start + s.Length
}

// IsEmpty reports whether the span covers no bytes
func (s Span) IsEmpty() bool {
	return s.Length == 0
}

// String returns a string representation of the span
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// Contains returns true if the offset lies within the span
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End()
}

// Encloses returns true if other lies entirely within s
func (s Span) Encloses(other Span) bool {
	return s.Start <= other.Start && other.End() <= s.End()
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	start := min(s.Start, other.Start)
	end := max(s.End(), other.End())
	return Span{Start: start, Length: end - start}
}

// SourceFile represents a source file with content and line tracking
type SourceFile struct {
	Filename string // File path
	Content  string // Source code content

	lineStarts []int // byte offset of the first byte of every line
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{
		Filename:   filename,
		Content:    content,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines in the file
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}

// GetLine returns the specified line (1-based) without its terminator,
// or an empty string if the line does not exist
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.lineStarts) {
		return ""
	}
	start := sf.lineStarts[lineNum-1]
	end := len(sf.Content)
	if lineNum < len(sf.lineStarts) {
		end = sf.lineStarts[lineNum] - 1
	}
	if end > start && sf.Content[end-1] == '\r' {
		end--
	}
	return sf.Content[start:end]
}

// GetSpanText returns the text covered by the span
func (sf *SourceFile) GetSpanText(span Span) string {
	if span.Start < 0 || span.End() > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start:span.End()]
}

// PositionFromOffset converts a byte offset to a Position. Offsets past the
// end of the content are clamped to the end of input.
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}

	// index of the last line starting at or before offset
	line := sort.Search(len(sf.lineStarts), func(i int) bool {
		return sf.lineStarts[i] > offset
	})

	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   offset - sf.lineStarts[line-1] + 1,
		Offset:   offset,
	}
}

// Resolve converts a span into its start and end positions
func (sf *SourceFile) Resolve(span Span) (Position, Position) {
	return sf.PositionFromOffset(span.Start), sf.PositionFromOffset(span.End())
}
