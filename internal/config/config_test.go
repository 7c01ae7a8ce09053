package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate("0.1.0"))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
color: never
log_level: debug
requires: ">= 0.1.0, < 1.0.0"
check:
  concurrency: 8
watch:
  debounce: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Check.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 1000, cfg.History.Max, "unset fields keep defaults")
	assert.NoError(t, cfg.Validate("0.1.0"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ErrConfigFileUnreadable, errors.Cause(err))

	path := writeConfig(t, dir, "color: [unterminated")
	_, err = Load(path)
	assert.Equal(t, ErrConfigFileUnmarshallable, errors.Cause(err))
}

func TestResolve(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		cfg, path, err := Resolve("", t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default file", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		dir := t.TempDir()
		want := writeConfig(t, dir, "color: always\n")

		cfg, path, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, want, path)
		assert.Equal(t, "always", cfg.Color)
	})

	t.Run("environment beats default file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "color: always\n")
		other := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(other, []byte("color: never\n"), 0o644))
		t.Setenv(EnvVar, other)

		cfg, path, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, other, path)
		assert.Equal(t, "never", cfg.Color)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, _, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
		assert.Equal(t, ErrConfigFileUnreadable, errors.Cause(err))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad color", func(c *Config) { c.Color = "sometimes" }, ErrInvalidColor},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
		{"negative history", func(c *Config) { c.History.Max = -1 }, ErrInvalidHistoryMax},
		{"zero concurrency", func(c *Config) { c.Check.Concurrency = 0 }, ErrInvalidCheckConcurrency},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, ErrInvalidWatchDebounce},
		{"bad constraint", func(c *Config) { c.Requires = "not a version" }, ErrInvalidRequires},
		{"unsatisfied", func(c *Config) { c.Requires = ">= 2.0.0" }, ErrUnsatisfiedVersion},
		{"satisfied", func(c *Config) { c.Requires = "^0.1" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate("0.1.0")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, errors.Cause(err))
		})
	}
}

func TestHistoryPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, ".quill_history"), cfg.HistoryPath())

	cfg.History.File = "relative/history"
	assert.Equal(t, "relative/history", cfg.HistoryPath())
}
