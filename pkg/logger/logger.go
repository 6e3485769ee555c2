package logger

import (
	"io"
	"strings"

	charm "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Logger wraps a charmbracelet logger so the rest of the codebase does not
// depend on the logging backend directly.
type Logger struct {
	*charm.Logger
}

// NewLogger wraps an existing charm logger.
func NewLogger(l *charm.Logger) *Logger {
	if l == nil {
		l = charm.Default()
	}
	return &Logger{Logger: l}
}

// NewWithOutput creates a Logger writing to the given output.
func NewWithOutput(w io.Writer) *Logger {
	return NewLogger(charm.New(w))
}

// ParseLevel converts a level name into a charm log level.
// An empty string means Info.
func ParseLevel(level string) (charm.Level, error) {
	if level == "" {
		return charm.InfoLevel, nil
	}
	switch strings.ToLower(level) {
	case "debug":
		return charm.DebugLevel, nil
	case "info":
		return charm.InfoLevel, nil
	case "warn", "warning":
		return charm.WarnLevel, nil
	case "error":
		return charm.ErrorLevel, nil
	default:
		return charm.InfoLevel, errors.Newf("invalid log level '%s'. Supported log levels are Debug, Info, Warn, Error", level)
	}
}

// SetLevelString parses and applies a level name.
func (l *Logger) SetLevelString(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(parsed)
	return nil
}
