package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. When f returns false the children of that node are
// skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Inspect(stmt, f)
		}
	case *ExpressionStatement:
		Inspect(n.Expression, f)
	case *VariableDeclaration:
		Inspect(n.Name, f)
		if n.Initializer != nil {
			Inspect(n.Initializer, f)
		}
	case *BlockStatement:
		for _, stmt := range n.Statements {
			Inspect(stmt, f)
		}
	case *IfStatement:
		Inspect(n.Condition, f)
		Inspect(n.ThenBranch, f)
		if n.ElseBranch != nil {
			Inspect(n.ElseBranch, f)
		}
	case *WhileStatement:
		Inspect(n.Condition, f)
		Inspect(n.Body, f)
	case *ReturnStatement:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *AssignmentExpression:
		Inspect(n.Name, f)
		Inspect(n.Value, f)
	case *LogicalExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *BinaryExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpression:
		Inspect(n.Operand, f)
	case *CallExpression:
		Inspect(n.Function, f)
		for _, arg := range n.Arguments {
			Inspect(arg, f)
		}
	case *GroupingExpression:
		Inspect(n.Expression, f)
	case *FunctionLiteral:
		if n.Name != nil {
			Inspect(n.Name, f)
		}
		for _, p := range n.Parameters {
			Inspect(p, f)
		}
		Inspect(n.Body, f)
	}
}

// CountNodes returns the number of nodes in the tree rooted at node.
func CountNodes(node Node) int {
	count := 0
	Inspect(node, func(Node) bool {
		count++
		return true
	})
	return count
}
