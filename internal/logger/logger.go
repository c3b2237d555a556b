package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New builds a logger writing to w in the given format ("json" or "text").
func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: ParseLevel(level) == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init installs the default slog logger. Logs go to stderr so that stdout
// stays free for document and report output.
func Init(format, level string) {
	slog.SetDefault(New(os.Stderr, format, level))
}
