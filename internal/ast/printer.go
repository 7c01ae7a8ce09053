package ast

import (
	"strings"
)

// Sprint renders node as a parenthesized prefix expression, e.g.
// "(+ 1 (* 2 3))". It is used for AST dumps and in tests.
func Sprint(node Node) string {
	var sb strings.Builder
	p := &printer{sb: &sb}
	p.print(node)
	return sb.String()
}

type printer struct {
	sb *strings.Builder
}

func (p *printer) parens(name string, parts ...Node) {
	p.sb.WriteString("(" + name)
	for _, part := range parts {
		p.sb.WriteByte(' ')
		p.print(part)
	}
	p.sb.WriteByte(')')
}

func (p *printer) print(node Node) {
	switch n := node.(type) {
	case *Program:
		p.parens("program", statements(n.Statements)...)
	case *ExpressionStatement:
		p.parens(";", n.Expression)
	case *VariableDeclaration:
		if n.Initializer == nil {
			p.parens("var", n.Name)
		} else {
			p.parens("var", n.Name, n.Initializer)
		}
	case *BlockStatement:
		p.parens("block", statements(n.Statements)...)
	case *IfStatement:
		if n.ElseBranch == nil {
			p.parens("if", n.Condition, n.ThenBranch)
		} else {
			p.parens("if", n.Condition, n.ThenBranch, n.ElseBranch)
		}
	case *WhileStatement:
		p.parens("while", n.Condition, n.Body)
	case *BreakStatement:
		p.sb.WriteString("(break)")
	case *ReturnStatement:
		if n.Value == nil {
			p.sb.WriteString("(return)")
		} else {
			p.parens("return", n.Value)
		}
	case *Identifier:
		p.sb.WriteString(n.Value)
	case *Literal:
		p.sb.WriteString(n.String())
	case *AssignmentExpression:
		p.parens("=", n.Name, n.Value)
	case *LogicalExpression:
		p.parens(n.Operator.String(), n.Left, n.Right)
	case *BinaryExpression:
		p.parens(n.Operator.String(), n.Left, n.Right)
	case *UnaryExpression:
		p.parens(n.Operator.String(), n.Operand)
	case *CallExpression:
		p.parens("call", append([]Node{n.Function}, expressions(n.Arguments)...)...)
	case *GroupingExpression:
		p.parens("group", n.Expression)
	case *FunctionLiteral:
		name := "function"
		if n.Name != nil {
			name += " " + n.Name.Value
		}
		params := make([]string, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = param.Value
		}
		p.sb.WriteString("(" + name + " (" + strings.Join(params, " ") + ") ")
		p.print(n.Body)
		p.sb.WriteByte(')')
	default:
		p.sb.WriteString("<?>")
	}
}

func statements(stmts []Statement) []Node {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}

func expressions(exprs []Expression) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
