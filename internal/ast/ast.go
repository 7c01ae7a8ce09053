// Package ast defines the Abstract Syntax Tree (AST) nodes for Quill.
//
// The node set is closed: consumers walk it with exhaustive type switches
// over Expression and Statement. Nodes are built once by the parser and
// never modified afterwards; they hold no evaluation state.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/quill/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns a source-like rendering of the node
	String() string
}

// Statement represents all statement nodes in the AST
type Statement interface {
	Node
	statementNode() // Marker method to distinguish statements
}

// Expression represents all expression nodes in the AST
type Expression interface {
	Node
	expressionNode() // Marker method to distinguish expressions
}

// ===== Program Structure =====

// Program represents the root of the AST: one parsed source text
type Program struct {
	Span       position.Span // Source span of the entire input
	Statements []Statement   // Top-level statements in source order
}

func (p *Program) GetSpan() position.Span { return p.Span }
func (p *Program) String() string {
	var parts []string
	for _, stmt := range p.Statements {
		parts = append(parts, stmt.String())
	}
	return strings.Join(parts, "\n")
}

// ===== Statements =====

// ExpressionStatement evaluates an expression for its side effects
type ExpressionStatement struct {
	Span       position.Span
	Expression Expression
}

func (e *ExpressionStatement) GetSpan() position.Span { return e.Span }
func (e *ExpressionStatement) statementNode()         {}
func (e *ExpressionStatement) String() string         { return e.Expression.String() + ";" }

// VariableDeclaration binds a name in the current scope. A named function
// declaration is a VariableDeclaration whose initializer is the
// FunctionLiteral.
type VariableDeclaration struct {
	Span        position.Span
	Name        *Identifier
	Initializer Expression // nil when absent
}

func (v *VariableDeclaration) GetSpan() position.Span { return v.Span }
func (v *VariableDeclaration) statementNode()         {}
func (v *VariableDeclaration) String() string {
	if fn, ok := v.Initializer.(*FunctionLiteral); ok && fn.Name != nil && fn.Name.Value == v.Name.Value {
		return fn.String()
	}
	if v.Initializer == nil {
		return fmt.Sprintf("var %s;", v.Name)
	}
	return fmt.Sprintf("var %s = %s;", v.Name, v.Initializer)
}

// BlockStatement is a braced statement list with its own scope
type BlockStatement struct {
	Span       position.Span
	Statements []Statement
}

func (b *BlockStatement) GetSpan() position.Span { return b.Span }
func (b *BlockStatement) statementNode()         {}
func (b *BlockStatement) String() string {
	if len(b.Statements) == 0 {
		return "{ }"
	}
	var parts []string
	for _, stmt := range b.Statements {
		parts = append(parts, stmt.String())
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// IfStatement represents conditional execution
type IfStatement struct {
	Span       position.Span
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // nil when absent
}

func (i *IfStatement) GetSpan() position.Span { return i.Span }
func (i *IfStatement) statementNode()         {}
func (i *IfStatement) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Condition, i.ThenBranch)
	if i.ElseBranch != nil {
		s += " else " + i.ElseBranch.String()
	}
	return s
}

// WhileStatement represents a pre-tested loop. for loops are rewritten
// into WhileStatements by the parser.
type WhileStatement struct {
	Span      position.Span
	Condition Expression
	Body      Statement
}

func (w *WhileStatement) GetSpan() position.Span { return w.Span }
func (w *WhileStatement) statementNode()         {}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) %s", w.Condition, w.Body)
}

// BreakStatement leaves the innermost enclosing loop
type BreakStatement struct {
	Span position.Span
}

func (b *BreakStatement) GetSpan() position.Span { return b.Span }
func (b *BreakStatement) statementNode()         {}
func (b *BreakStatement) String() string         { return "break;" }

// ReturnStatement leaves the enclosing function
type ReturnStatement struct {
	Span  position.Span
	Value Expression // nil when absent
}

func (r *ReturnStatement) GetSpan() position.Span { return r.Span }
func (r *ReturnStatement) statementNode()         {}
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}

// ===== Expressions =====

// Identifier is a variable reference. It also names declarations and
// parameters.
type Identifier struct {
	Span  position.Span
	Value string
}

func (i *Identifier) GetSpan() position.Span { return i.Span }
func (i *Identifier) expressionNode()        {}
func (i *Identifier) String() string         { return i.Value }

// LiteralKind represents the kind of literal
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBoolean
	LiteralNil
)

func (lk LiteralKind) String() string {
	switch lk {
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBoolean:
		return "boolean"
	case LiteralNil:
		return "nil"
	default:
		return "unknown"
	}
}

// Literal represents literal values. Value holds a float64, string, bool
// or nil according to Kind.
type Literal struct {
	Span  position.Span
	Kind  LiteralKind
	Value interface{}
}

func (l *Literal) GetSpan() position.Span { return l.Span }
func (l *Literal) expressionNode()        {}
func (l *Literal) String() string {
	switch l.Kind {
	case LiteralNumber:
		return strconv.FormatFloat(l.Value.(float64), 'f', -1, 64)
	case LiteralString:
		return strconv.Quote(l.Value.(string))
	case LiteralBoolean:
		return strconv.FormatBool(l.Value.(bool))
	default:
		return "nil"
	}
}

// AssignmentExpression stores a value into an existing binding
type AssignmentExpression struct {
	Span  position.Span
	Name  *Identifier
	Value Expression
}

func (a *AssignmentExpression) GetSpan() position.Span { return a.Span }
func (a *AssignmentExpression) expressionNode()        {}
func (a *AssignmentExpression) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.Value)
}

// LogicalExpression represents the short-circuiting and/or operators
type LogicalExpression struct {
	Span         position.Span
	Left         Expression
	Operator     Operator // OpAnd or OpOr
	OperatorSpan position.Span
	Right        Expression
}

func (l *LogicalExpression) GetSpan() position.Span { return l.Span }
func (l *LogicalExpression) expressionNode()        {}
func (l *LogicalExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Operator, l.Right)
}

// BinaryExpression represents binary operations (a + b, a == b, etc.)
type BinaryExpression struct {
	Span         position.Span // Source span of the entire expression
	Left         Expression    // Left operand
	Operator     Operator      // Binary operator
	OperatorSpan position.Span // Span of the operator token
	Right        Expression    // Right operand
}

func (b *BinaryExpression) GetSpan() position.Span { return b.Span }
func (b *BinaryExpression) expressionNode()        {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// UnaryExpression represents unary operations (-a, !a)
type UnaryExpression struct {
	Span         position.Span // Source span of the expression
	Operator     Operator      // Unary operator
	OperatorSpan position.Span // Span of the operator token
	Operand      Expression    // Operand expression
}

func (u *UnaryExpression) GetSpan() position.Span { return u.Span }
func (u *UnaryExpression) expressionNode()        {}
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Operand)
}

// CallExpression represents function calls
type CallExpression struct {
	Span      position.Span // Source span of the call
	Function  Expression    // Function being called
	Paren     position.Span // Span of the opening parenthesis
	Arguments []Expression  // Call arguments
}

func (c *CallExpression) GetSpan() position.Span { return c.Span }
func (c *CallExpression) expressionNode()        {}
func (c *CallExpression) String() string {
	var args []string
	for _, arg := range c.Arguments {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s(%s)", c.Function, strings.Join(args, ", "))
}

// GroupingExpression is a parenthesized expression
type GroupingExpression struct {
	Span       position.Span
	Expression Expression
}

func (g *GroupingExpression) GetSpan() position.Span { return g.Span }
func (g *GroupingExpression) expressionNode()        {}
func (g *GroupingExpression) String() string         { return "(" + g.Expression.String() + ")" }

// FunctionLiteral creates a closure over the scope it is evaluated in
type FunctionLiteral struct {
	Span       position.Span
	Name       *Identifier // nil for anonymous functions
	Parameters []*Identifier
	Body       *BlockStatement
}

func (f *FunctionLiteral) GetSpan() position.Span { return f.Span }
func (f *FunctionLiteral) expressionNode()        {}
func (f *FunctionLiteral) String() string {
	var params []string
	for _, p := range f.Parameters {
		params = append(params, p.Value)
	}
	name := ""
	if f.Name != nil {
		name = " " + f.Name.Value
	}
	return fmt.Sprintf("function%s(%s) %s", name, strings.Join(params, ", "), f.Body)
}

// ===== Operators =====

// Operator represents all operators in the language
type Operator int

const (
	// Arithmetic operators
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %

	// Comparison operators
	OpEq // ==
	OpNe // !=
	OpLt // <
	OpLe // <=
	OpGt // >
	OpGe // >=

	// Logical operators
	OpAnd // and
	OpOr  // or
	OpNot // !
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "!"
	default:
		return "?"
	}
}
