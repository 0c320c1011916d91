/*
PURPOSE:
  Provides a structured logger for the image test harness.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.

  Implementation-discovered:
  - stdout carries the result table that other tooling parses, so logs go to stderr.
  - Level is configurable (config log_level / --log-level).

ARCHITECTURE INTEGRATION:
  - Used everywhere.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")
*/

package output

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

func init() {
	Logger = NewLogger(slog.LevelInfo, os.Stderr)
}

// NewLogger builds a text logger at the given level.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}
