package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/driver"
	"github.com/orizon-lang/quill/internal/interpreter"
	"github.com/orizon-lang/quill/internal/lexer"
	"github.com/orizon-lang/quill/internal/parser"
	"github.com/orizon-lang/quill/internal/position"
	"github.com/orizon-lang/quill/internal/runtime"
)

const (
	promptMain = "quill> "
	promptCont = "   ... "
)

// session is the state of one REPL: an interpreter whose globals survive
// from one input to the next.
type session struct {
	app    *app
	interp *interpreter.Interpreter
	driver *driver.Driver
	debug  bool
	out    io.Writer
}

func (a *app) newSession() *session {
	s := &session{
		app:    a,
		driver: driver.New(a.logger),
		debug:  a.logger.GetLevel() == log.DebugLevel,
		out:    a.stdout,
	}
	s.reset()
	return s
}

func (s *session) reset() {
	s.interp = interpreter.New(
		interpreter.WithStdout(s.out),
		interpreter.WithLogger(s.app.logger),
	)
}

func (a *app) repl() int {
	s := a.newSession()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyPath := a.cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := writeHistory(ln, historyPath, a.cfg.History.Max); err != nil {
				a.logger.Warn("saving history", "path", historyPath, "err", err)
			}
		}()
	}

	info := cli.GetVersionInfo()
	fmt.Fprintf(a.stdout, "Quill v%s\n", info.Version)
	fmt.Fprintln(a.stdout, "Type :help for help, :quit to exit")

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(a.stdout)
			return cli.ExitOK
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if s.handle(trimmed) {
			return cli.ExitOK
		}
	}
}

// handle processes one complete input and reports whether the user asked
// to leave.
func (s *session) handle(input string) bool {
	if input == "exit" {
		return true
	}
	if strings.HasPrefix(input, ":") {
		return s.command(input)
	}
	s.eval("<repl>", input)
	return false
}

// readInput prompts until the input no longer has open brackets. It
// returns false at end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src still has unclosed parentheses, braces or
// string literals.
func incomplete(src string) bool {
	sink := diagnostics.NewManager(nil)
	depth := 0
	for _, tok := range lexer.Scan(src, sink) {
		switch tok.Type {
		case lexer.TokenLParen, lexer.TokenLBrace:
			depth++
		case lexer.TokenRParen, lexer.TokenRBrace:
			depth--
		}
	}
	if depth > 0 {
		return true
	}
	for _, d := range sink.Diagnostics(diagnostics.Compile) {
		if d.Message == "Unterminated string." {
			return true
		}
	}
	return false
}

func (s *session) eval(name, src string) {
	sink := s.driver.Run(s.interp, position.NewSourceFile(name, src))
	s.app.display(sink)
}

func (s *session) command(line string) bool {
	parts := strings.Fields(line)
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch parts[0] {
	case ":help", ":h":
		s.printHelp()
	case ":quit", ":q", ":exit":
		return true
	case ":reset":
		s.reset()
		fmt.Fprintln(s.out, "Environment reset")
	case ":load":
		if arg == "" {
			fmt.Fprintln(s.out, "Usage: :load <file>")
			break
		}
		file, err := driver.ReadSource(arg)
		if err != nil {
			fmt.Fprintf(s.out, "Error loading file: %v\n", err)
			break
		}
		s.app.display(s.driver.Run(s.interp, file))
	case ":vars":
		s.showVariables()
	case ":ast":
		sink := diagnostics.NewManager(position.NewSourceFile("<repl>", arg))
		program := parser.ParseSource(arg, sink)
		for _, stmt := range program.Statements {
			fmt.Fprintln(s.out, ast.Sprint(stmt))
		}
		s.app.display(sink)
	case ":debug":
		switch arg {
		case "":
			fmt.Fprintf(s.out, "Debug mode: %v\n", s.debug)
		case "on", "true", "1":
			s.setDebug(true)
			fmt.Fprintln(s.out, "Debug mode enabled")
		case "off", "false", "0":
			s.setDebug(false)
			fmt.Fprintln(s.out, "Debug mode disabled")
		default:
			fmt.Fprintln(s.out, "Usage: :debug on|off")
		}
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(s.out, "Type :help for available commands")
	}

	return false
}

func (s *session) setDebug(on bool) {
	s.debug = on
	if on {
		s.app.logger.SetLevel(log.DebugLevel)
		return
	}
	level, err := log.ParseLevel(s.app.cfg.LogLevel)
	if err != nil || level == log.DebugLevel {
		level = log.WarnLevel
	}
	s.app.logger.SetLevel(level)
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "REPL Commands:")
	fmt.Fprintln(s.out, "  :help, :h          Show this help")
	fmt.Fprintln(s.out, "  :quit, :q, :exit   Exit REPL (or type exit)")
	fmt.Fprintln(s.out, "  :reset             Reset environment")
	fmt.Fprintln(s.out, "  :load <file>       Load and execute file")
	fmt.Fprintln(s.out, "  :vars              Show global variables")
	fmt.Fprintln(s.out, "  :ast <code>        Show the syntax tree of code")
	fmt.Fprintln(s.out, "  :debug on|off      Toggle debug logging")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Enter Quill statements to run them.")
}

func (s *session) showVariables() {
	globals := s.interp.Globals()
	fmt.Fprintln(s.out, "Global variables:")
	for _, name := range globals.Names() {
		v, err := globals.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "  %s = %s\n", name, runtime.Stringify(v))
	}
}

// writeHistory saves at most limit of the most recent history entries.
func writeHistory(ln *liner.State, path string, limit int) error {
	var buf bytes.Buffer
	if _, err := ln.WriteHistory(&buf); err != nil {
		return errors.Wrap(err, "collect history")
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return errors.Wrapf(os.WriteFile(path, []byte(content), 0o600), "write %s", path)
}
