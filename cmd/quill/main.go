// Command quill runs Quill scripts, checks them for syntax errors and
// provides an interactive REPL.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/config"
)

// app is the state shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	colorize bool
	stdout   io.Writer
	stderr   io.Writer
}

var commands = []cli.CommandInfo{
	{Name: "run", Usage: "run [--watch] <file.ql>", Description: "Run a script, optionally re-running it on change"},
	{Name: "repl", Usage: "repl", Description: "Start the interactive REPL"},
	{Name: "check", Usage: "check <file.ql>...", Description: "Report syntax errors without running anything"},
	{Name: "parse", Usage: "parse <file.ql>", Description: "Print the syntax tree"},
	{Name: "tokens", Usage: "tokens <file.ql>", Description: "Print the token stream"},
	{Name: "version", Usage: "version [--json]", Description: "Show version information"},
	{Name: "help", Usage: "help", Description: "Show this help"},
}

var globalFlags = []cli.FlagInfo{
	{Name: "--config PATH", Usage: "Settings file (default $QUILL_CONFIG or .quill.yaml)"},
	{Name: "--debug", Usage: "Enable debug logging"},
	{Name: "--color auto|always|never", Usage: "Colorize diagnostics"},
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "settings file")
	debug := fs.Bool("debug", false, "enable debug logging")
	colorMode := fs.String("color", "", "auto, always or never")
	fs.Usage = func() { cli.PrintUsage(stderr, "quill", commands, globalFlags) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitOK
		}
		return cli.ExitUsage
	}

	a, code := newApp(*configPath, *debug, *colorMode, stdout, stderr)
	if a == nil {
		return code
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return a.repl()
	}

	sub, subArgs := rest[0], rest[1:]
	a.logger.Debug("dispatch", "command", sub, "args", subArgs)

	switch sub {
	case "help", "-h", "--help":
		cli.PrintUsage(stdout, "quill", commands, globalFlags)
		return cli.ExitOK
	case "version":
		return a.version(subArgs)
	case "run":
		return a.run(subArgs)
	case "repl":
		return a.repl()
	case "check":
		return a.check(subArgs)
	case "parse":
		return a.parse(subArgs)
	case "tokens":
		return a.tokens(subArgs)
	default:
		// quill <file.ql> is shorthand for quill run <file.ql>
		if len(subArgs) == 0 {
			return a.run(rest)
		}
		fmt.Fprintf(stderr, "unknown command: %s\n", sub)
		cli.PrintUsage(stderr, "quill", commands, globalFlags)
		return cli.ExitUsage
	}
}

// newApp loads settings and builds the logger. On failure it returns nil
// and the exit status to use.
func newApp(configPath string, debug bool, colorMode string, stdout, stderr io.Writer) (*app, int) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	cfg, path, err := config.Resolve(configPath, wd)
	if err == nil {
		if colorMode != "" {
			cfg.Color = colorMode
		}
		if debug {
			cfg.LogLevel = "debug"
		}
		err = cfg.Validate(cli.Version)
	}
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return nil, cli.ExitConfig
	}

	logger, err := cli.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return nil, cli.ExitConfig
	}
	if path != "" {
		logger.Debug("loaded settings", "path", path)
	}

	colorize := false
	switch cfg.Color {
	case "always":
		colorize = true
	case "auto":
		colorize = !color.NoColor && stderr == io.Writer(os.Stderr)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		colorize: colorize,
		stdout:   stdout,
		stderr:   stderr,
	}, cli.ExitOK
}

func (a *app) version(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOutput := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	if err := cli.PrintVersion(a.stdout, "quill", *jsonOutput); err != nil {
		a.logger.Error("printing version", "err", err)
		return cli.ExitRuntimeError
	}
	return cli.ExitOK
}
