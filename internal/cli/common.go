// Package cli holds what the quill command shares across subcommands:
// version information, exit statuses, usage text and logger setup.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Version information
var (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
	CommitSHA = "unknown" // set with -ldflags at build time
)

// Process exit statuses.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitCompileError = 65
	ExitNoInput      = 66
	ExitRuntimeError = 70
	ExitConfig       = 78
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes version information as text or JSON.
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal version info")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(&b, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(&b, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(&b, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Platform: %s/%s\n", info.Platform, info.Arch)

	_, err := io.WriteString(w, b.String())
	return err
}

// NewLogger builds the leveled logger used by every subcommand. level is
// one of debug, info, warn or error; an empty level means warn.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", level)
		}
		lvl = parsed
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "quill",
		ReportTimestamp: true,
	}), nil
}

// CommandInfo represents information about a CLI command
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
}

// FlagInfo describes a global flag
type FlagInfo struct {
	Name  string
	Usage string
}

// PrintUsage writes a standardized usage message
func PrintUsage(w io.Writer, tool string, commands []CommandInfo, flags []FlagInfo) {
	fmt.Fprintf(w, "%s - the Quill interpreter\n\n", tool)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s [GLOBAL OPTIONS] <command> [ARGS]\n", tool)
	fmt.Fprintf(w, "    %s [GLOBAL OPTIONS] <file.ql>\n\n", tool)

	if len(commands) > 0 {
		fmt.Fprintf(w, "COMMANDS:\n")
		for _, cmd := range commands {
			fmt.Fprintf(w, "    %-28s %s\n", cmd.Usage, cmd.Description)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(flags) > 0 {
		fmt.Fprintf(w, "GLOBAL OPTIONS:\n")
		for _, f := range flags {
			fmt.Fprintf(w, "    %-28s %s\n", f.Name, f.Usage)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "Running %s with no command starts the REPL.\n", tool)
}
