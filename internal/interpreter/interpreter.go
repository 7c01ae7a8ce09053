// Package interpreter executes Quill programs by walking their syntax tree.
//
// Statements produce an outcome (normal completion, break or return) that
// composite statements inspect to decide whether to keep going. Runtime
// errors are ordinary Go errors; the first one ends the program.
package interpreter

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/runtime"
)

type outcomeKind int

const (
	outcomeNormal outcomeKind = iota
	outcomeBreak
	outcomeReturn
)

// outcome is the result of executing a statement.
type outcome struct {
	kind  outcomeKind
	value runtime.Value // set for outcomeReturn
}

var normal = outcome{kind: outcomeNormal}

// Interpreter runs programs against a global scope that persists between
// calls to Interpret, so a REPL can build on earlier input.
type Interpreter struct {
	globals *runtime.Environment
	stdout  io.Writer
	clock   func() time.Time
	logger  *log.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets where print and println write. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

// WithClock sets the time source used by clock.
func WithClock(clock func() time.Time) Option {
	return func(in *Interpreter) { in.clock = clock }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// New creates an interpreter whose global scope holds the native functions.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		globals: runtime.NewEnvironment(nil),
		stdout:  os.Stdout,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.logger == nil {
		in.logger = log.New(io.Discard)
	}

	runtime.DefineBuiltins(in.globals)
	in.logger.Debug("registered natives", "names", in.globals.Names())

	return in
}

// Globals returns the global scope.
func (in *Interpreter) Globals() *runtime.Environment {
	return in.globals
}

// Interpret executes the program's statements in order. The first runtime
// error is reported to sink and stops execution; Interpret reports whether
// the program ran to completion.
func (in *Interpreter) Interpret(program *ast.Program, sink *diagnostics.Manager) bool {
	for _, stmt := range program.Statements {
		if _, err := in.execute(stmt, in.globals); err != nil {
			rtErr := asRuntimeError(err, stmt.GetSpan())
			in.logger.Debug("runtime error", "message", rtErr.Message, "offset", rtErr.Span.Start)
			sink.Report(diagnostics.Runtime, rtErr.Span, rtErr.Message)
			return false
		}
	}
	return true
}

// ExecuteBody runs a function body in env. It implements
// runtime.CallContext.
func (in *Interpreter) ExecuteBody(body *ast.BlockStatement, env *runtime.Environment) (runtime.Value, error) {
	out, err := in.executeBlock(body.Statements, env)
	if err != nil {
		return nil, err
	}
	if out.kind == outcomeReturn {
		return out.value, nil
	}
	return runtime.Nil, nil
}

// Stdout implements runtime.CallContext.
func (in *Interpreter) Stdout() io.Writer { return in.stdout }

// Now implements runtime.CallContext.
func (in *Interpreter) Now() time.Time { return in.clock() }

func (in *Interpreter) execute(stmt ast.Statement, env *runtime.Environment) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		if _, err := in.evaluate(s.Expression, env); err != nil {
			return normal, err
		}
		return normal, nil

	case *ast.VariableDeclaration:
		var value runtime.Value = runtime.Nil
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer, env)
			if err != nil {
				return normal, err
			}
			value = v
		}
		env.Define(s.Name.Value, value)
		return normal, nil

	case *ast.BlockStatement:
		return in.executeBlock(s.Statements, runtime.NewEnvironment(env))

	case *ast.IfStatement:
		cond, err := in.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if runtime.Truthy(cond) {
			return in.execute(s.ThenBranch, env)
		}
		if s.ElseBranch != nil {
			return in.execute(s.ElseBranch, env)
		}
		return normal, nil

	case *ast.WhileStatement:
		for {
			cond, err := in.evaluate(s.Condition, env)
			if err != nil {
				return normal, err
			}
			if !runtime.Truthy(cond) {
				return normal, nil
			}

			out, err := in.execute(s.Body, env)
			if err != nil {
				return normal, err
			}
			switch out.kind {
			case outcomeBreak:
				return normal, nil
			case outcomeReturn:
				return out, nil
			}
		}

	case *ast.BreakStatement:
		return outcome{kind: outcomeBreak}, nil

	case *ast.ReturnStatement:
		var value runtime.Value = runtime.Nil
		if s.Value != nil {
			v, err := in.evaluate(s.Value, env)
			if err != nil {
				return normal, err
			}
			value = v
		}
		return outcome{kind: outcomeReturn, value: value}, nil
	}

	return normal, newRuntimeError(stmt.GetSpan(), "Unsupported statement.")
}

// executeBlock runs stmts in env, stopping at the first break or return.
func (in *Interpreter) executeBlock(stmts []ast.Statement, env *runtime.Environment) (outcome, error) {
	for _, stmt := range stmts {
		out, err := in.execute(stmt, env)
		if err != nil || out.kind != outcomeNormal {
			return out, err
		}
	}
	return normal, nil
}
