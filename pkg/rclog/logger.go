// Package rclog provides the structured logger the cycle collector uses to
// report the otherwise-silent corners of its protocol: the S2 defensive
// fallback, and optional tracing of the Reachability Oracle's
// classification of each component it inspects.
//
// A nil *Logger is valid and discards everything, so library code never
// needs to check whether the caller wired one up.
package rclog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger with an independently adjustable level, the
// way the rest of the pack's daemons do, so library code can log at
// Debug/Warn freely and callers decide at which level any of it surfaces.
type Logger struct {
	slog  *slog.Logger
	level Level
}

// NewText returns a Logger that writes human-readable lines to w.
func NewText(w io.Writer) *Logger {
	return &Logger{
		slog:  slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
		level: LevelInfo,
	}
}

// NewJSON returns a Logger that writes one JSON object per line to w.
func NewJSON(w io.Writer) *Logger {
	return &Logger{
		slog:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
		level: LevelInfo,
	}
}

// Nop returns a Logger that discards everything. This is the default the
// core engine uses until a caller opts into logging.
func Nop() *Logger {
	return &Logger{
		slog:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		level: LevelError + 1,
	}
}

// Default returns a Logger writing text to stderr at Info level.
func Default() *Logger {
	return NewText(os.Stderr)
}

// SetLevel sets the minimum level that is actually emitted and returns the
// previous setting.
func (l *Logger) SetLevel(level Level) (prev Level) {
	if l == nil {
		return LevelInfo
	}
	prev = l.level
	l.level = level
	return prev
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || l.level > level {
		return
	}
	l.slog.Log(context.Background(), slog.Level(level), msg, args...)
}

// Debug logs at Debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at Info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at Error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
