// Package logging provides a small level-gated diagnostic logger.
//
// A [Logger] is an explicit context object: construct one at process startup,
// inject it into components that emit diagnostics, and drop it at shutdown.
// There is no package-level mutable state.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// Level gates which messages a Logger emits.
type Level int

// Log levels, ordered from silent to most verbose.
const (
	LevelDisable Level = iota
	LevelError
	LevelWarning
	LevelTrace
	LevelRef
)

// String returns the short tag used in emitted lines.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "EE"
	case LevelWarning:
		return "WW"
	case LevelTrace:
		return "II"
	case LevelRef:
		return "RR"
	default:
		return "--"
	}
}

// ParseLevel converts a numeric level string (0..4) to a Level.
// Out-of-range values are clamped; non-numeric input yields def.
func ParseLevel(s string, def Level) Level {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}

	if n < int(LevelDisable) {
		return LevelDisable
	}

	if n > int(LevelRef) {
		return LevelRef
	}

	return Level(n)
}

// Logger is a level-gated formatted writer.
// The zero value is not usable; use [New].
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New creates a Logger writing to out at the given level.
// A nil out falls back to stderr.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	return &Logger{level: level, out: out}
}

// NewFromEnv creates a stderr Logger whose level comes from the LOGLEVEL
// environment variable (0..4), defaulting to error-only.
func NewFromEnv() *Logger {
	return New(ParseLevel(os.Getenv("LOGLEVEL"), LevelError), os.Stderr)
}

// Level returns the current gate level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.level
}

// SetLevel changes the gate level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
}

// SetOutput redirects emitted messages. A nil writer restores stderr.
func (l *Logger) SetOutput(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.out = out
}

// Errorf emits at LevelError.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(LevelError, format, args...)
}

// Warnf emits at LevelWarning.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(LevelWarning, format, args...)
}

// Tracef emits at LevelTrace.
func (l *Logger) Tracef(format string, args ...any) {
	l.emit(LevelTrace, format, args...)
}

// Reff emits at LevelRef, the most verbose tracing level.
func (l *Logger) Reff(format string, args ...any) {
	l.emit(LevelRef, format, args...)
}

func (l *Logger) emit(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level < level {
		return
	}

	fmt.Fprintf(l.out, "(%s) "+format+"\n", append([]any{level.String()}, args...)...)
}
