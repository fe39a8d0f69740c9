// Package telemetry provides the single structured logger used across the
// simulator. Every component logs through it instead of ad-hoc fmt.Println
// or scattered log.Printf calls.
package telemetry

import (
	"fmt"
	"os"
	"strings"

	"github.com/theapemachine/errnie"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a config string ("debug", "info", "warn", "error")
// into a Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the simulator's structured logger. Every entity and subsystem
// holds a reference to one, scoped with a component name.
type Logger struct {
	component string
	level     Level
}

// New returns a root logger at the given level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// With returns a copy of the logger scoped to the given component name,
// preserving the level.
func (l *Logger) With(component string) *Logger {
	return &Logger{component: component, level: l.level}
}

func (l *Logger) enabled(min Level) bool {
	return l != nil && l.level <= min
}

func (l *Logger) prefix(format string) string {
	if l.component == "" {
		return format
	}
	return fmt.Sprintf("[%s] %s", l.component, format)
}

// Debug logs at debug level. Used for per-event scheduling/dispatch traces.
func (l *Logger) Debug(format string, args ...any) {
	if !l.enabled(LevelDebug) {
		return
	}
	errnie.Info(l.prefix(format), args...)
}

// Info logs at info level. Used for lifecycle milestones (init, run summary).
func (l *Logger) Info(format string, args ...any) {
	if !l.enabled(LevelInfo) {
		return
	}
	errnie.Info(l.prefix(format), args...)
}

// Warn logs at warn level. Used for advisory regulator signals.
func (l *Logger) Warn(format string, args ...any) {
	if !l.enabled(LevelWarn) {
		return
	}
	errnie.Info(l.prefix("WARN "+format), args...)
}

// Error logs at error level and never gets filtered.
func (l *Logger) Error(format string, args ...any) {
	errnie.Info(l.prefix("ERROR "+format), args...)
}

// Fatal logs at error level and terminates the process. Reserved for the
// demo CLI's unrecoverable startup failures, never called from library code.
func (l *Logger) Fatal(format string, args ...any) {
	l.Error(format, args...)
	os.Exit(1)
}

// Noop returns a logger that discards Debug, Info and Warn output, useful as
// a default for tests that don't care about log output. Error and Fatal are
// never filtered, so they still print through it.
func Noop() *Logger {
	return &Logger{level: LevelError + 1}
}
