// Package obslog provides structured logging for the engine's root
// Engine: a thin wrapper over log/slog with a Level and With()-style
// child loggers, sized for a library rather than a long-running service.
package obslog

import (
	"log/slog"
	"os"
)

// Level mirrors slog's severity ordering.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger wraps slog.Logger with the engine's component attribute.
type Logger struct {
	slog *slog.Logger
}

// New returns a Logger writing text-formatted logs to stderr at the
// given level, tagged with the given component name.
func New(level Level, component string) *Logger {
	opts := &slog.HandlerOptions{Level: level.toSlogLevel()}
	handler := slog.NewTextHandler(os.Stderr, opts)
	base := slog.New(handler)
	if component != "" {
		base = base.With("component", component)
	}
	return &Logger{slog: base}
}

// Default returns an Info-level logger tagged "changegraph".
func Default() *Logger {
	return New(LevelInfo, "changegraph")
}

// Noop returns a Logger that discards everything, for tests and callers
// that don't want output.
func Noop() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a child Logger with additional attributes attached to
// every subsequent log line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}
