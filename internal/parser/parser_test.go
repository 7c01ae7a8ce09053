package parser

import (
	"strings"
	"testing"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/diagnostics"
)

// parse parses input and returns the program with its diagnostics
func parse(input string) (*ast.Program, *diagnostics.Manager) {
	sink := diagnostics.NewManager(nil)
	return ParseSource(input, sink), sink
}

// sprintStatements renders each top-level statement on its own line
func sprintStatements(program *ast.Program) string {
	var parts []string
	for _, stmt := range program.Statements {
		parts = append(parts, ast.Sprint(stmt))
	}
	return strings.Join(parts, "\n")
}

func messages(sink *diagnostics.Manager) []string {
	var out []string
	for _, d := range sink.Diagnostics(diagnostics.Compile) {
		out = append(out, d.Message)
	}
	return out
}

// TestParserBasic tests basic parser functionality
func TestParserBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple variable declaration",
			input:    "var x = 42;",
			expected: "(var x 42)",
		},
		{
			name:     "Declaration without initializer",
			input:    "var x;",
			expected: "(var x)",
		},
		{
			name:     "Function declaration",
			input:    "function add(a, b) { return a + b; }",
			expected: "(var add (function add (a b) (block (return (+ a b)))))",
		},
		{
			name:     "Anonymous function expression",
			input:    "var f = function(x) { return x; };",
			expected: "(var f (function (x) (block (return x))))",
		},
		{
			name:     "Immediately called function literal",
			input:    "function() { return 1; }();",
			expected: "(; (call (function () (block (return 1)))))",
		},
		{
			name:     "Expression statement",
			input:    "x + y;",
			expected: "(; (+ x y))",
		},
		{
			name:     "Literals",
			input:    `print("hi", 2.5, true, false, nil);`,
			expected: `(; (call print "hi" 2.5 true false nil))`,
		},
		{
			name:     "If else",
			input:    "if (a) b; else { c; }",
			expected: "(if a (; b) (block (; c)))",
		},
		{
			name:     "Dangling else binds to nearest if",
			input:    "if (a) if (b) c; else d;",
			expected: "(if a (if b (; c) (; d)))",
		},
		{
			name:     "Empty block",
			input:    "{}",
			expected: "(block)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, sink := parse(tt.input)

			if sink.HasErrors(diagnostics.Compile) {
				t.Fatalf("Parser errors: %v", messages(sink))
			}

			if got := sprintStatements(program); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"(1 + 2) * 3;", "(; (* (group (+ 1 2)) 3))"},
		{"1 - 2 - 3;", "(; (- (- 1 2) 3))"},
		{"8 / 4 % 3;", "(; (% (/ 8 4) 3))"},
		{"-a * b;", "(; (* (- a) b))"},
		{"!!a;", "(; (! (! a)))"},
		{"a < b == c >= d;", "(; (== (< a b) (>= c d)))"},
		{"a or b and c;", "(; (or a (and b c)))"},
		{"a and b or c;", "(; (or (and a b) c))"},
		{"a == b and c != d;", "(; (and (== a b) (!= c d)))"},
		{"a = b = c;", "(; (= a (= b c)))"},
		{"a = b or c;", "(; (= a (or b c)))"},
		{"f(1)(2);", "(; (call (call f 1) 2))"},
		{"-f(x);", "(; (- (call f x)))"},
		{"f(a, b + 1, g());", "(; (call f a (+ b 1) (call g)))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, sink := parse(tt.input)
			if sink.HasErrors(diagnostics.Compile) {
				t.Fatalf("Parser errors: %v", messages(sink))
			}
			if got := sprintStatements(program); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	input := "var a = 1 + 2;\nprint(a);"
	program, sink := parse(input)
	if sink.HasErrors(diagnostics.Compile) {
		t.Fatalf("Parser errors: %v", messages(sink))
	}

	decl := program.Statements[0].(*ast.VariableDeclaration)
	if got := input[decl.Span.Start:decl.Span.End()]; got != "var a = 1 + 2;" {
		t.Errorf("declaration span covers %q", got)
	}

	bin := decl.Initializer.(*ast.BinaryExpression)
	if got := input[bin.Span.Start:bin.Span.End()]; got != "1 + 2" {
		t.Errorf("binary span covers %q", got)
	}
	if got := input[bin.OperatorSpan.Start:bin.OperatorSpan.End()]; got != "+" {
		t.Errorf("operator span covers %q", got)
	}

	call := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if got := input[call.Paren.Start:call.Paren.End()]; got != "(" {
		t.Errorf("paren span covers %q", got)
	}
	if got := input[call.Span.Start:call.Span.End()]; got != "print(a)" {
		t.Errorf("call span covers %q", got)
	}

	if program.Span.End() != len(input) {
		t.Errorf("program span = %v, want end %d", program.Span, len(input))
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages []string
		expected string
	}{
		{
			name:     "Missing expression",
			input:    "var a = ;",
			messages: []string{"Expected expression."},
		},
		{
			name:     "Missing variable name",
			input:    "var = 1;",
			messages: []string{"Expected a variable name."},
		},
		{
			name:     "Missing semicolon after declaration",
			input:    "var a = 1",
			messages: []string{"Expected ';' after variable declaration."},
		},
		{
			name:     "Missing semicolon after expression",
			input:    "a + b",
			messages: []string{"Expected ';' after expression."},
		},
		{
			name:     "Unclosed group",
			input:    "(1 + 2;",
			messages: []string{"Expected ')' after expression."},
		},
		{
			name:     "Unclosed call",
			input:    "f(1;",
			messages: []string{"Expected ')' after arguments."},
		},
		{
			name:     "Unclosed block",
			input:    "{ var a = 1;",
			messages: []string{"Expected '}' after block."},
		},
		{
			name:     "If without parenthesis",
			input:    "if a) b;",
			messages: []string{"Expected '(' after 'if'."},
		},
		{
			name:     "While without closing parenthesis",
			input:    "while (a b;",
			messages: []string{"Expected ')' after condition."},
		},
		{
			name:     "Invalid assignment target keeps value",
			input:    "a + b = c;",
			messages: []string{"Invalid assignment target."},
			expected: "(; c)",
		},
		{
			name:     "Grouped assignment target",
			input:    "(a) = 1;",
			messages: []string{"Invalid assignment target."},
			expected: "(; 1)",
		},
		{
			name:     "Leading equality operator",
			input:    "== 1;",
			messages: []string{"Missing left side of the comparison."},
			expected: "(; 1)",
		},
		{
			name:     "Leading comparison operator",
			input:    "> 2 + 3;",
			messages: []string{"Missing left side of the comparison."},
			expected: "(; (+ 2 3))",
		},
		{
			name:     "Leading plus continues the level",
			input:    "+ 1 + 2;",
			messages: []string{"Missing left side of the operation."},
			expected: "(; (+ 1 2))",
		},
		{
			name:     "Leading factor operator",
			input:    "* 4;",
			messages: []string{"Missing left side of the operation."},
			expected: "(; 4)",
		},
		{
			name:     "Break outside loop",
			input:    "break;",
			messages: []string{"Can't break outside of a loop."},
			expected: "(break)",
		},
		{
			name:     "Return at top level",
			input:    "return 1;",
			messages: []string{"Can't return from top-level code."},
			expected: "(return 1)",
		},
		{
			name:     "Reserved keyword",
			input:    "var a = this;",
			messages: []string{"'this' is reserved and not supported."},
		},
		{
			name:     "Class is reserved",
			input:    "class Foo {}",
			messages: []string{"'class' is reserved and not supported."},
		},
		{
			name:     "Bad parameter",
			input:    "function f(1) {}",
			messages: []string{"Expected a parameter name."},
		},
		{
			name:     "Missing function body",
			input:    "function f() return;",
			messages: []string{"Expected '{' before function body."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, sink := parse(tt.input)

			got := messages(sink)
			if strings.Join(got, "|") != strings.Join(tt.messages, "|") {
				t.Fatalf("diagnostics = %q, want %q", got, tt.messages)
			}

			if s := sprintStatements(program); s != tt.expected {
				t.Errorf("statements = %s, want %s", s, tt.expected)
			}
		})
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, MaxArguments+2)
	for i := range args {
		args[i] = "1"
	}
	program, sink := parse("f(" + strings.Join(args, ", ") + ");")

	got := messages(sink)
	if len(got) != 2 || got[0] != "Can't have more than 255 arguments." {
		t.Fatalf("diagnostics = %q", got)
	}

	// Parsing continues and keeps every argument.
	call := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != MaxArguments+2 {
		t.Errorf("got %d arguments, want %d", len(call.Arguments), MaxArguments+2)
	}
}

func TestTooManyParameters(t *testing.T) {
	params := make([]string, MaxArguments+1)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}
	_, sink := parse("function f(" + strings.Join(params, ", ") + ") {}")

	got := messages(sink)
	if len(got) != 1 || got[0] != "Can't have more than 255 parameters." {
		t.Fatalf("diagnostics = %q", got)
	}
}
