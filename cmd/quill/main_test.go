package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/quill/internal/cli"
	"github.com/orizon-lang/quill/internal/config"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// quill runs the command line with args and returns its exit status and
// output streams.
func quill(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(config.EnvVar, "")

	var stdout, stderr bytes.Buffer
	code := realMain(append([]string{"--color", "never"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, t.TempDir(), "hello.ql", `
function greet(name) { return "hello, " + name; }
println(greet("quill"));
for (var i = 0; i < 3; i = i + 1) print(i);
`)

	code, stdout, stderr := quill(t, "run", path)
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "hello, quill\n012", stdout)
	assert.Empty(t, stderr)
}

func TestFileShorthand(t *testing.T) {
	path := writeScript(t, t.TempDir(), "short.ql", `print("ran");`)

	code, stdout, _ := quill(t, path)
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "ran", stdout)
}

func TestRunCompileError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.ql", "print(1);\nvar = 2;\n")

	code, stdout, stderr := quill(t, "run", path)
	assert.Equal(t, cli.ExitCompileError, code)
	assert.Empty(t, stdout, "nothing runs when compilation fails")
	assert.Contains(t, stderr, "compile error: Expected a variable name.")
	assert.Contains(t, stderr, "bad.ql:2:5")
}

func TestRunRuntimeError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "boom.ql", "print(\"a\");\nprint(1 + nil);\nprint(\"b\");")

	code, stdout, stderr := quill(t, "run", path)
	assert.Equal(t, cli.ExitRuntimeError, code)
	assert.Equal(t, "a", stdout)
	assert.Contains(t, stderr, "runtime error: Operands must be two numbers or two strings.")
}

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := quill(t, "run", filepath.Join(t.TempDir(), "missing.ql"))
	assert.Equal(t, cli.ExitNoInput, code)
	assert.Contains(t, stderr, "cannot read input")
}

func TestRunUsage(t *testing.T) {
	code, _, _ := quill(t, "run")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = quill(t, "--no-such-flag")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = quill(t, "frobnicate", "extra")
	assert.Equal(t, cli.ExitUsage, code)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.ql", "var a = 1;")
	bad := writeScript(t, dir, "bad.ql", "var a = (1;")

	code, stdout, stderr := quill(t, "check", good, bad)
	assert.Equal(t, cli.ExitCompileError, code)
	assert.Contains(t, stdout, good+": ok")
	assert.Contains(t, stderr, "Expected ')' after expression.")

	code, _, _ = quill(t, "check", good)
	assert.Equal(t, cli.ExitOK, code)
}

func TestParse(t *testing.T) {
	path := writeScript(t, t.TempDir(), "ast.ql", "var a = 1 + 2 * 3;\nprint(a);")

	code, stdout, _ := quill(t, "parse", path)
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "(var a (+ 1 (* 2 3)))\n(; (call print a))\n", stdout)
}

func TestTokens(t *testing.T) {
	path := writeScript(t, t.TempDir(), "tok.ql", "var x;")

	code, stdout, _ := quill(t, "tokens", path)
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "1:1\tVAR\t\"var\"\n1:5\tIDENTIFIER\t\"x\"\n1:6\tSEMICOLON\t\";\"\n1:7\tEOF\t\"\"\n", stdout)
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := quill(t, "version", "--json")
	require.Equal(t, cli.ExitOK, code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "quill", decoded["tool"])
}

func TestConfigRequiresNewerVersion(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeScript(t, dir, "settings.yaml", "requires: \">= 99.0.0\"\n")
	script := writeScript(t, dir, "main.ql", "print(1);")

	code, stdout, stderr := quill(t, "--config", cfgPath, "run", script)
	assert.Equal(t, cli.ExitConfig, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "configuration error")
}

func TestConfigInvalidColorFlag(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	var stdout, stderr bytes.Buffer
	code := realMain([]string{"--color", "purple", "version"}, &stdout, &stderr)
	assert.Equal(t, cli.ExitConfig, code)
}

func TestHelp(t *testing.T) {
	code, stdout, _ := quill(t, "help")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "check <file.ql>...")
}

func TestExamples(t *testing.T) {
	want := map[string]string{
		"closures.ql": "1\n2\n1\n",
		"fib.ql":      "0 1 1 2 3 5 8 13 21 34 \ntrue\n",
		"loops.ql":    "0\n01\n012\n",
	}

	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.ql"))
	require.NoError(t, err)
	require.Len(t, paths, len(want))

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			code, stdout, stderr := quill(t, "run", path)
			assert.Equal(t, 0, code, stderr)
			assert.Equal(t, want[filepath.Base(path)], stdout)
		})
	}
}
