// Package logging defines the structured logger used across the console and
// its two backends: log/slog for plain text or JSON output and zerolog for a
// colourised interactive console.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "orders loaded", "count", n, "page", page)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel maps a textual level to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a Logger writing to w in the requested format.
func New(format, level string, w io.Writer) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch format = strings.ToLower(format); format {
	case "", FormatText, FormatJSON:
		return NewSlogLogger(slog.New(newSlogHandler(format, w, lvl))), nil
	case FormatConsole:
		return NewConsoleLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}
