package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewHandler builds the stdout handler: JSON in production, text otherwise.
func NewHandler(w io.Writer, level slog.Level, production bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if production {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup initializes the global slog logger. Extra handlers (for example the
// PGHandler) receive every record the stdout handler does, subject to their
// own level filters.
func Setup(level string, production bool, extra ...slog.Handler) *slog.Logger {
	handlers := append([]slog.Handler{NewHandler(os.Stdout, ParseLevel(level), production)}, extra...)
	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = NewMultiHandler(handlers...)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
