// Package runtime holds the values a Quill program manipulates, the scope
// chain they live in, and the native functions available to every program.
package runtime

import (
	"io"
	"math"
	"strconv"
	"time"

	"github.com/orizon-lang/quill/internal/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native function"
	default:
		return "unknown"
	}
}

// Value is any Quill runtime value. The set of implementations is closed:
// NilValue, BoolValue, NumberValue, StringValue, *FunctionValue and
// *NativeFunctionValue.
type Value interface {
	Kind() Kind
}

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// Nil is the only nil value.
var Nil = NilValue{}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

// CallContext is what a callable needs from the interpreter invoking it.
type CallContext interface {
	// ExecuteBody runs a function body in env and returns the value of the
	// return statement that ended it, or Nil.
	ExecuteBody(body *ast.BlockStatement, env *Environment) (Value, error)
	// Stdout is where program output is written.
	Stdout() io.Writer
	// Now reads the host clock.
	Now() time.Time
}

// Callable is implemented by values that can appear on the left of a call.
type Callable interface {
	Value
	Arity() int
	Call(ctx CallContext, args []Value) (Value, error)
}

// FunctionValue is a closure: a function literal together with the scope
// that was current when the literal was evaluated. The scope is shared,
// never copied, so calls observe and update the bindings it holds.
type FunctionValue struct {
	Declaration *ast.FunctionLiteral
	Closure     *Environment
}

func (*FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) Arity() int { return len(f.Declaration.Parameters) }

// Name returns the function's declared name, or "" when anonymous.
func (f *FunctionValue) Name() string {
	if f.Declaration.Name == nil {
		return ""
	}
	return f.Declaration.Name.Value
}

// Call binds args to the parameters in a fresh scope enclosed by the
// closure and runs the body. The caller has already checked the arity.
func (f *FunctionValue) Call(ctx CallContext, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Parameters {
		env.Define(param.Value, args[i])
	}
	return ctx.ExecuteBody(f.Declaration.Body, env)
}

// NativeFunc implements a native function.
type NativeFunc func(ctx CallContext, args []Value) (Value, error)

// NativeFunctionValue is a function provided by the host.
type NativeFunctionValue struct {
	Name      string
	NumParams int
	Impl      NativeFunc
}

func (*NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (n *NativeFunctionValue) Arity() int { return n.NumParams }

func (n *NativeFunctionValue) Call(ctx CallContext, args []Value) (Value, error) {
	return n.Impl(ctx, args)
}

// Truthy reports whether v counts as true in a condition. Only nil and
// false are falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal compares two values. Values of different kinds are never equal;
// functions are equal only to themselves.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x.Val == y.Val
	case NumberValue:
		y, ok := b.(NumberValue)
		return ok && x.Val == y.Val
	case StringValue:
		y, ok := b.(StringValue)
		return ok && x.Val == y.Val
	case *FunctionValue:
		y, ok := b.(*FunctionValue)
		return ok && x == y
	case *NativeFunctionValue:
		y, ok := b.(*NativeFunctionValue)
		return ok && x == y
	default:
		return false
	}
}

// Stringify renders v the way print shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		return val.Val
	case *FunctionValue:
		if name := val.Name(); name != "" {
			return "<fn " + name + ">"
		}
		return "<fn>"
	case *NativeFunctionValue:
		return "<native fn>"
	default:
		return "<unknown>"
	}
}

// FormatNumber renders a number in the shortest form that reads back to the
// same value. Integral values have no fractional part ("3", not "3.0").
// Very large and very small magnitudes use exponent notation.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	if abs := math.Abs(v); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
