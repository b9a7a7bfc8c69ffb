// Package logger provides leveled logging on top of the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a logging level.
type Level int

const (
	// DebugLevel is for cache hits, file stats and other plumbing detail.
	DebugLevel Level = iota
	// InfoLevel is the default.
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a config string to a Level. ok is false for unknown names.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return InfoLevel, false
	}
}

type state struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
}

var std = &state{
	level:  WarnLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags),
}

// Init sets the minimum level. Unknown names fall back to info.
func Init(level string) {
	l, _ := ParseLevel(level)
	std.mu.Lock()
	std.level = l
	std.mu.Unlock()
}

// SetOutput redirects log output. The TUI points this at io.Discard so log
// lines do not tear the alt screen.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.logger.SetOutput(w)
	std.mu.Unlock()
}

// Enabled reports whether messages at l are emitted.
func Enabled(l Level) bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level <= l
}

func output(l Level, tag, format string, args ...any) {
	if !Enabled(l) {
		return
	}
	_ = std.logger.Output(3, fmt.Sprintf("["+tag+"] "+format, args...))
}

// Debug logs at DebugLevel.
func Debug(format string, args ...any) { output(DebugLevel, "DEBUG", format, args...) }

// Info logs at InfoLevel.
func Info(format string, args ...any) { output(InfoLevel, "INFO", format, args...) }

// Warn logs at WarnLevel.
func Warn(format string, args ...any) { output(WarnLevel, "WARN", format, args...) }

// Error logs at ErrorLevel.
func Error(format string, args ...any) { output(ErrorLevel, "ERROR", format, args...) }
