package main

import (
	"context"
	"fmt"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/driver"
	"github.com/orizon-lang/quill/internal/lexer"
)

func (a *app) check(paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(a.stderr, "usage: quill check <file.ql>...")
		return cli.ExitUsage
	}

	results, err := driver.New(a.logger).CheckFiles(context.Background(), paths, a.cfg.Check.Concurrency)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return cli.ExitNoInput
	}

	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintln(a.stderr, r.Err)
		case r.Sink.HasErrors(diagnostics.Compile):
			a.display(r.Sink)
		default:
			fmt.Fprintf(a.stdout, "%s: ok\n", r.Path)
		}
	}
	return driver.CheckExitCode(results)
}

func (a *app) parse(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "usage: quill parse <file.ql>")
		return cli.ExitUsage
	}

	file, err := driver.ReadSource(args[0])
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return cli.ExitNoInput
	}

	program, sink := driver.New(a.logger).Compile(file)
	for _, stmt := range program.Statements {
		fmt.Fprintln(a.stdout, ast.Sprint(stmt))
	}
	a.display(sink)

	return driver.ExitCode(sink)
}

func (a *app) tokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "usage: quill tokens <file.ql>")
		return cli.ExitUsage
	}

	file, err := driver.ReadSource(args[0])
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return cli.ExitNoInput
	}

	sink := diagnostics.NewManager(file)
	for _, tok := range lexer.Scan(file.Content, sink) {
		pos := file.PositionFromOffset(tok.Span.Start)
		fmt.Fprintf(a.stdout, "%d:%d\t%s\t%q\n", pos.Line, pos.Column, tok.Type, tok.Lexeme)
	}
	a.display(sink)

	return driver.ExitCode(sink)
}
