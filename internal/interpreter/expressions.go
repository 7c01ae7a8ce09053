package interpreter

import (
	"math"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/runtime"
)

func (in *Interpreter) evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e), nil

	case *ast.Identifier:
		v, err := env.Get(e.Value)
		if err != nil {
			return nil, newRuntimeError(e.Span, "%s", err.Error())
		}
		return v, nil

	case *ast.AssignmentExpression:
		v, err := in.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(e.Name.Value, v); err != nil {
			return nil, newRuntimeError(e.Name.Span, "%s", err.Error())
		}
		return v, nil

	case *ast.GroupingExpression:
		return in.evaluate(e.Expression, env)

	case *ast.LogicalExpression:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Operator == ast.OpOr {
			if runtime.Truthy(left) {
				return left, nil
			}
		} else if !runtime.Truthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right, env)

	case *ast.UnaryExpression:
		operand, err := in.evaluate(e.Operand, env)
		if err != nil {
			return nil, err
		}
		return unary(e, operand)

	case *ast.BinaryExpression:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evaluate(e.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(e, left, right)

	case *ast.CallExpression:
		return in.call(e, env)

	case *ast.FunctionLiteral:
		return &runtime.FunctionValue{Declaration: e, Closure: env}, nil
	}

	return nil, newRuntimeError(expr.GetSpan(), "Unsupported expression.")
}

func literalValue(lit *ast.Literal) runtime.Value {
	switch lit.Kind {
	case ast.LiteralNumber:
		return runtime.NumberValue{Val: lit.Value.(float64)}
	case ast.LiteralString:
		return runtime.StringValue{Val: lit.Value.(string)}
	case ast.LiteralBoolean:
		return runtime.BoolValue{Val: lit.Value.(bool)}
	default:
		return runtime.Nil
	}
}

func unary(e *ast.UnaryExpression, operand runtime.Value) (runtime.Value, error) {
	if e.Operator == ast.OpNot {
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	}

	n, ok := operand.(runtime.NumberValue)
	if !ok {
		return nil, newRuntimeError(e.OperatorSpan, "Operand must be a number.")
	}
	return runtime.NumberValue{Val: -n.Val}, nil
}

func binary(e *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	switch e.Operator {
	case ast.OpEq:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case ast.OpNe:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case ast.OpAdd:
		switch l := left.(type) {
		case runtime.NumberValue:
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		case runtime.StringValue:
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, newRuntimeError(e.OperatorSpan, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, newRuntimeError(e.OperatorSpan, "Operands must be numbers.")
	}

	switch e.Operator {
	case ast.OpSub:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case ast.OpMul:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case ast.OpDiv:
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case ast.OpMod:
		return runtime.NumberValue{Val: math.Mod(l.Val, r.Val)}, nil
	case ast.OpLt:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case ast.OpLe:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	case ast.OpGt:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case ast.OpGe:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	}

	return nil, newRuntimeError(e.OperatorSpan, "Unsupported operator '%s'.", e.Operator)
}

// call evaluates the callee and then the arguments left to right before
// checking that the callee can be called with them.
func (in *Interpreter) call(e *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := in.evaluate(e.Function, env)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := in.evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions.")
	}
	if fn.Arity() != len(args) {
		return nil, newRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	result, err := fn.Call(in, args)
	if err != nil {
		return nil, asRuntimeError(err, e.Paren)
	}
	return result, nil
}
