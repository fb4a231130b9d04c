// Package logging builds the hclog loggers savebox writes to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// LineMarker starts every text log line
	LineMarker = "💾 "

	// DefaultLevel applies when neither a flag nor SAVEBOX_LOG_LEVEL sets one
	DefaultLevel = "warn"

	envLevel = "SAVEBOX_LOG_LEVEL"
	envJSON  = "SAVEBOX_JSON_LOG"
)

// Options describes a root logger
type Options struct {
	Name   string
	Level  string
	Output io.Writer
	JSON   bool
}

// New builds a root logger. Text output is marked line by line; JSON
// output is left untouched so it stays one object per line.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = newLineWriter(LineMarker, out)
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = hclog.Warn
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      level,
		JSONFormat: opts.JSON,
		Output:     out,
		TimeFormat: time.RFC3339,
		TimeFn:     func() time.Time { return time.Now().UTC() },
	})
}

// NewLogger builds a root logger, choosing JSON output when SAVEBOX_JSON_LOG=1
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	return New(Options{
		Name:   name,
		Level:  level,
		Output: output,
		JSON:   os.Getenv(envJSON) == "1",
	})
}

// ParseLevel maps a level name to an hclog level. An empty name is the
// default level.
func ParseLevel(name string) (hclog.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLevel
	}
	level := hclog.LevelFromString(name)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("unknown log level %q (want trace, debug, info, warn, error or off)", name)
	}
	return level, nil
}

// GetLogLevel returns SAVEBOX_LOG_LEVEL, or the default level
func GetLogLevel() string {
	if level := os.Getenv(envLevel); level != "" {
		return level
	}
	return DefaultLevel
}

// OrNull returns logger, or a null logger when logger is nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
