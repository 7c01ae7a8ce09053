// Package config loads the optional .quill.yaml settings file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	semver "github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is looked up in the working directory.
	DefaultFile = ".quill.yaml"
	// EnvVar names a config file to use instead of DefaultFile.
	EnvVar = "QUILL_CONFIG"
)

type History struct {
	File string `yaml:"file"`
	Max  int    `yaml:"max"`
}

type Check struct {
	Concurrency int `yaml:"concurrency"`
}

type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Config is the contents of a settings file.
type Config struct {
	Color    string  `yaml:"color"`     // auto, always or never
	LogLevel string  `yaml:"log_level"` // debug, info, warn or error
	Requires string  `yaml:"requires"`  // semver constraint on the quill version
	History  History `yaml:"history"`
	Check    Check   `yaml:"check"`
	Watch    Watch   `yaml:"watch"`
}

var (
	ErrConfigFileUnreadable     = errors.New("config file is unreadable")
	ErrConfigFileUnmarshallable = errors.New("config file is unmarshallable")
	ErrInvalidColor             = errors.New("color must be auto, always or never")
	ErrInvalidLogLevel          = errors.New("log_level must be debug, info, warn or error")
	ErrInvalidRequires          = errors.New("requires is not a valid version constraint")
	ErrUnsatisfiedVersion       = errors.New("quill version does not satisfy requires")
	ErrInvalidHistoryMax        = errors.New("history.max must not be negative")
	ErrInvalidCheckConcurrency  = errors.New("check.concurrency must be at least 1")
	ErrInvalidWatchDebounce     = errors.New("watch.debounce must not be negative")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Color:    "auto",
		LogLevel: "warn",
		History: History{
			File: "~/.quill_history",
			Max:  1000,
		},
		Check: Check{Concurrency: 4},
		Watch: Watch{Debounce: 100 * time.Millisecond},
	}
}

// Load reads the file at path over the defaults. Fields the file leaves
// out keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrConfigFileUnreadable, "%s: %v", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(ErrConfigFileUnmarshallable, "%s: %v", path, err)
	}
	return cfg, nil
}

// Resolve finds and loads the settings file. An explicit path wins, then
// $QUILL_CONFIG, then DefaultFile in dir. Only a missing DefaultFile is
// tolerated; it yields the defaults.
func Resolve(explicit, dir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}

	path = filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks the enumerated settings and that version satisfies the
// requires constraint.
func (c *Config) Validate(version string) error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return errors.Wrapf(ErrInvalidColor, "got %q", c.Color)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidLogLevel, "got %q", c.LogLevel)
	}

	if c.History.Max < 0 {
		return ErrInvalidHistoryMax
	}
	if c.Check.Concurrency < 1 {
		return ErrInvalidCheckConcurrency
	}
	if c.Watch.Debounce < 0 {
		return ErrInvalidWatchDebounce
	}

	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return errors.Wrapf(ErrInvalidRequires, "%q: %v", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "quill version %q", version)
	}
	if !constraint.Check(v) {
		return errors.Wrapf(ErrUnsatisfiedVersion, "%s does not satisfy %q", v, c.Requires)
	}
	return nil
}

// HistoryPath expands a leading ~ in the history file setting.
func (c *Config) HistoryPath() string {
	path := c.History.File
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
