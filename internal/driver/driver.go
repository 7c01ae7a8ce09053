// Package driver connects the front end and the interpreter: it reads
// source files, compiles them into programs, runs them and checks several
// files at once.
package driver

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/interpreter"
	"github.com/orizon-lang/quill/internal/lexer"
	"github.com/orizon-lang/quill/internal/parser"
	"github.com/orizon-lang/quill/internal/position"
)

// ErrNoInput is returned when a source file cannot be read.
var ErrNoInput = errors.New("cannot read input")

// Driver carries what every pipeline stage shares.
type Driver struct {
	logger *log.Logger
}

// New creates a driver. A nil logger discards everything.
func New(logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{logger: logger}
}

// ReadSource loads the file at path.
func ReadSource(path string) (*position.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNoInput, "%s: %v", path, err)
	}
	return position.NewSourceFile(path, string(data)), nil
}

// Compile lexes and parses file. Compile diagnostics land in the returned
// manager; the program holds every statement that parsed.
func (d *Driver) Compile(file *position.SourceFile) (*ast.Program, *diagnostics.Manager) {
	sink := diagnostics.NewManager(file)

	start := time.Now()
	tokens := lexer.Scan(file.Content, sink)
	lexed := time.Now()
	program := parser.NewParser(tokens, sink).Parse()

	d.logger.Debug("compiled",
		"file", file.Filename,
		"tokens", len(tokens),
		"statements", len(program.Statements),
		"lex", lexed.Sub(start),
		"parse", time.Since(lexed),
		"errors", sink.Count(diagnostics.Compile))

	return program, sink
}

// Run compiles file and, when it has no compile errors, executes it with in.
func (d *Driver) Run(in *interpreter.Interpreter, file *position.SourceFile) *diagnostics.Manager {
	program, sink := d.Compile(file)
	if sink.HasErrors(diagnostics.Compile) {
		return sink
	}

	start := time.Now()
	in.Interpret(program, sink)
	d.logger.Debug("executed", "file", file.Filename, "elapsed", time.Since(start),
		"errors", sink.Count(diagnostics.Runtime))

	return sink
}

// CheckResult is the outcome of checking one file.
type CheckResult struct {
	Path string
	Sink *diagnostics.Manager // nil when Err is set
	Err  error
}

// CheckFiles compiles every path without running anything, at most
// concurrency files at a time. Results come back in the order of paths.
// Unreadable files are recorded in their result and do not stop the others.
func (d *Driver) CheckFiles(ctx context.Context, paths []string, concurrency int) ([]CheckResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]CheckResult, len(paths))
	sem := make(chan struct{}, concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			results[i].Path = path
			file, err := ReadSource(path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			_, results[i].Sink = d.Compile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "check")
	}
	return results, nil
}

// ExitCode maps the diagnostics of a run to a process exit status.
func ExitCode(sink *diagnostics.Manager) int {
	switch {
	case sink.HasErrors(diagnostics.Compile):
		return cli.ExitCompileError
	case sink.HasErrors(diagnostics.Runtime):
		return cli.ExitRuntimeError
	default:
		return cli.ExitOK
	}
}

// CheckExitCode folds the results of CheckFiles into one exit status.
// Unreadable input outranks compile errors.
func CheckExitCode(results []CheckResult) int {
	code := cli.ExitOK
	for _, r := range results {
		if r.Err != nil {
			return cli.ExitNoInput
		}
		if r.Sink.HasErrors(diagnostics.Compile) {
			code = cli.ExitCompileError
		}
	}
	return code
}
