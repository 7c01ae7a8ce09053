package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/orizon-lang/quill/internal/diagnostics"
)

// generateRealisticQuillCode creates Quill source with the usual mix of
// declarations, loops, strings and comments.
func generateRealisticQuillCode(functions int, linesPerFunction int) string {
	var builder strings.Builder

	builder.WriteString("// generated for benchmarks\n")
	builder.WriteString("var total = 0;\n\n")

	for i := 0; i < functions; i++ {
		builder.WriteString(fmt.Sprintf("function step_%d(a, b) {\n", i))

		for j := 0; j < linesPerFunction; j++ {
			switch j % 6 {
			case 0:
				builder.WriteString(fmt.Sprintf("  var dx_%d = b - a * %d.5;\n", j, j))
			case 1:
				builder.WriteString(fmt.Sprintf("  if (dx_%d >= 0 and a != nil) {\n", j-1))
			case 2:
				builder.WriteString(fmt.Sprintf("    println(\"step %d of function %d\\n\");\n", j, i))
			case 3:
				builder.WriteString("  }\n")
			case 4:
				builder.WriteString(fmt.Sprintf("  for (var k = 0; k < %d; k = k + 1) total = total + k %% 3;\n", j))
			case 5:
				builder.WriteString(fmt.Sprintf("  /* block comment %d */ // line comment\n", j))
			}
		}
		if n := linesPerFunction % 6; n == 2 || n == 3 {
			builder.WriteString("  }\n")
		}

		builder.WriteString("  return a + b;\n}\n\n")
	}

	for i := 0; i < min(10, functions); i++ {
		builder.WriteString(fmt.Sprintf("print(step_%d(%d, %d));\n", i, i, i+1))
	}

	return builder.String()
}

func benchmarkScan(b *testing.B, content string) {
	b.SetBytes(int64(len(content)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		sink := diagnostics.NewManager(nil)
		tokens := Scan(content, sink)
		if sink.HasErrors(diagnostics.Compile) {
			b.Fatalf("unexpected lexical errors: %v", sink.Diagnostics())
		}
		if len(tokens) == 0 {
			b.Fatal("no tokens")
		}
	}
}

func BenchmarkScan_SmallFile(b *testing.B) {
	benchmarkScan(b, generateRealisticQuillCode(10, 12))
}

func BenchmarkScan_MediumFile(b *testing.B) {
	benchmarkScan(b, generateRealisticQuillCode(50, 20))
}

func BenchmarkScan_LargeFile(b *testing.B) {
	benchmarkScan(b, generateRealisticQuillCode(500, 50))
}

func TestGeneratedCodeScansCleanly(t *testing.T) {
	content := generateRealisticQuillCode(5, 12)
	sink := diagnostics.NewManager(nil)
	tokens := Scan(content, sink)

	if sink.HasErrors(diagnostics.Compile) {
		t.Fatalf("unexpected lexical errors: %v", sink.Diagnostics())
	}
	if last := tokens[len(tokens)-1]; last.Type != TokenEOF {
		t.Fatalf("last token = %v, want EOF", last)
	}
}
