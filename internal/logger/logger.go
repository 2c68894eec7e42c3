// Package logger provides structured logging setup for codex-rotate.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/codex-rotate/cli/internal/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is text to w; results meant for the user are not logged.
func New(cfg config.Logging, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
