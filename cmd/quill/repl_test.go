package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/quill/internal/config"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.EnvVar, "")

	var stdout, stderr bytes.Buffer
	a, _ := newApp("", false, "never", &stdout, &stderr)
	require.NotNil(t, a)
	return a.newSession(), &stdout, &stderr
}

func TestSessionKeepsGlobals(t *testing.T) {
	s, stdout, stderr := newTestSession(t)

	assert.False(t, s.handle("var count = 1;"))
	assert.False(t, s.handle("count = count + 1;"))
	assert.False(t, s.handle("print(count);"))

	assert.Equal(t, "2", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestSessionContinuesAfterErrors(t *testing.T) {
	s, stdout, stderr := newTestSession(t)

	s.handle("print(;")
	s.handle("print(missing);")
	s.handle(`print("still here");`)

	assert.Contains(t, stderr.String(), "compile error: Expected expression.")
	assert.Contains(t, stderr.String(), "runtime error: Undefined variable 'missing'.")
	assert.Equal(t, "still here", stdout.String())
}

func TestSessionCommands(t *testing.T) {
	s, stdout, _ := newTestSession(t)

	s.handle("var answer = 42;")
	s.handle(":vars")
	assert.Contains(t, stdout.String(), "answer = 42")
	assert.Contains(t, stdout.String(), "clock = <native fn>")

	stdout.Reset()
	s.handle(":reset")
	s.handle(":vars")
	assert.NotContains(t, stdout.String(), "answer")

	stdout.Reset()
	s.handle(":ast 1 + 2;")
	assert.Equal(t, "(; (+ 1 2))\n", stdout.String())

	stdout.Reset()
	s.handle(":debug on")
	assert.True(t, s.debug)
	s.handle(":debug off")
	assert.False(t, s.debug)

	stdout.Reset()
	s.handle(":bogus")
	assert.Contains(t, stdout.String(), "Unknown command: :bogus")

	assert.True(t, s.handle(":quit"))
	assert.True(t, s.handle("exit"))
}

func TestSessionLoad(t *testing.T) {
	s, stdout, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "lib.ql")
	require.NoError(t, os.WriteFile(path, []byte("function double(x) { return x * 2; }"), 0o644))

	s.handle(":load " + path)
	s.handle("print(double(21));")
	assert.Equal(t, "42", stdout.String())

	stdout.Reset()
	s.handle(":load " + filepath.Join(t.TempDir(), "nope.ql"))
	assert.Contains(t, stdout.String(), "Error loading file")
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"print(1);", false},
		{"function f() {", true},
		{"function f() {\n  return 1;\n}", false},
		{"print(", true},
		{`print("abc`, true},
		{"}", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, incomplete(tt.src), "%q", tt.src)
	}
}
