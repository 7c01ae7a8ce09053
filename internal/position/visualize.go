package position

import (
	"fmt"
	"strings"
)

// SpanHighlighter renders source lines with a caret underline beneath a span.
type SpanHighlighter struct {
	file *SourceFile

	// Context is the number of lines shown before and after the span.
	Context int
}

// NewSpanHighlighter creates a new span highlighter for file.
func NewSpanHighlighter(file *SourceFile) *SpanHighlighter {
	return &SpanHighlighter{file: file}
}

// HighlightSpan returns the lines covered by span, each followed by a row
// of carets under the covered columns. An empty span is shown as a single
// caret at its start.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	start, end := sh.file.Resolve(span)
	if !start.IsValid() {
		return ""
	}
	if span.IsEmpty() {
		end.Column = start.Column + 1
	} else if end.Column == 1 && end.Line > start.Line {
		// span ends right after a newline; stop on the previous line
		end.Line--
		end.Column = len(sh.file.GetLine(end.Line)) + 1
	}

	var result strings.Builder

	first := max(1, start.Line-sh.Context)
	last := min(sh.file.LineCount(), end.Line+sh.Context)

	for lineNum := first; lineNum <= last; lineNum++ {
		line := sh.file.GetLine(lineNum)
		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))

		if lineNum < start.Line || lineNum > end.Line {
			continue
		}

		from, to := 1, len(line)+1
		if lineNum == start.Line {
			from = start.Column
		}
		if lineNum == end.Line {
			to = end.Column
		}
		result.WriteString("     | ")
		addSingleLineHighlight(&result, line, from, to)
		result.WriteString("\n")
	}

	return result.String()
}

// addSingleLineHighlight writes carets between the given columns.
func addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	// Keep tabs so the carets line up with the source above.
	for i := 1; i < startCol; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}

	result.WriteString(strings.Repeat("^", max(1, endCol-startCol)))
}
