// Package log wraps log/slog with a component label so every subsystem
// tags its output consistently.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a slog.Logger carrying a component attribute.
type Logger struct {
	*slog.Logger
}

// New creates a text logger writing to stderr at the given level.
func New(level slog.Level, component string) *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(h).With("component", component)}
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithComponent returns a child logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
