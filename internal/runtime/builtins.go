package runtime

import (
	"fmt"

	"github.com/pkg/errors"
)

// Builtins returns fresh instances of the native functions every program
// starts with: clock, print and println.
func Builtins() []*NativeFunctionValue {
	return []*NativeFunctionValue{
		{
			Name:      "clock",
			NumParams: 0,
			Impl: func(ctx CallContext, _ []Value) (Value, error) {
				return NumberValue{Val: float64(ctx.Now().UnixMilli()) / 1000}, nil
			},
		},
		{
			Name:      "print",
			NumParams: 1,
			Impl: func(ctx CallContext, args []Value) (Value, error) {
				if _, err := fmt.Fprint(ctx.Stdout(), Stringify(args[0])); err != nil {
					return nil, errors.Wrap(err, "print")
				}
				return Nil, nil
			},
		},
		{
			Name:      "println",
			NumParams: 1,
			Impl: func(ctx CallContext, args []Value) (Value, error) {
				if _, err := fmt.Fprintln(ctx.Stdout(), Stringify(args[0])); err != nil {
					return nil, errors.Wrap(err, "println")
				}
				return Nil, nil
			},
		},
	}
}

// DefineBuiltins binds the native functions in env.
func DefineBuiltins(env *Environment) {
	for _, fn := range Builtins() {
		env.Define(fn.Name, fn)
	}
}
