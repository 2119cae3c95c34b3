package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler used by NewWith.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// replaceAttr standardizes common keys (e.g., "error" -> "err").
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// New creates a configured application logger.
// It writes to Stderr so that stdout stays free for the chat REPL and
// the MCP stdio transport.
func New(level slog.Level) *slog.Logger {
	return NewWith(os.Stderr, FormatText, level)
}

// NewJSON creates a JSON logger writing to w, for server deployments.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return NewWith(w, FormatJSON, level)
}

// NewWith builds a logger for the given writer and format.
// Unknown formats fall back to text.
func NewWith(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
