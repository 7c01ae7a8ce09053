package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/driver"
	"github.com/orizon-lang/quill/internal/interpreter"
	"github.com/orizon-lang/quill/internal/watch"
)

func (a *app) run(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	watchMode := fs.Bool("watch", false, "re-run the script whenever it changes")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: quill run [--watch] <file.ql>")
		return cli.ExitUsage
	}
	path := fs.Arg(0)

	if !*watchMode {
		return a.runOnce(path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := watch.Run(ctx, path, a.cfg.Watch.Debounce, a.logger, func() {
		a.runOnce(path)
	})
	if err != nil {
		a.logger.Error("watch failed", "path", path, "err", err)
		return cli.ExitNoInput
	}
	return cli.ExitOK
}

// runOnce executes the file in a fresh interpreter and shows its
// diagnostics.
func (a *app) runOnce(path string) int {
	file, err := driver.ReadSource(path)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return cli.ExitNoInput
	}

	in := interpreter.New(
		interpreter.WithStdout(a.stdout),
		interpreter.WithLogger(a.logger),
	)
	sink := driver.New(a.logger).Run(in, file)
	a.display(sink)

	return driver.ExitCode(sink)
}

func (a *app) display(sink *diagnostics.Manager) {
	if err := sink.Display(a.stderr, a.colorize, diagnostics.Compile, diagnostics.Runtime); err != nil {
		a.logger.Error("writing diagnostics", "err", err)
	}
}
