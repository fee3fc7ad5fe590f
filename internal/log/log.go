// Package log provides category-based structured logging for PeopleKit.
// It is a thin facade over log/slog so packages can log with a consistent
// category prefix without threading a logger through every constructor.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Category identifies the subsystem emitting a log record.
type Category string

// Log categories used across the codebase.
const (
	CatConfig  Category = "config"
	CatDB      Category = "db"
	CatDetect  Category = "detect"
	CatMachine Category = "machine"
	CatOrch    Category = "orchestrator"
	CatHTTP    Category = "http"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	// Default to a discard logger; main wires a real one via Setup.
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Setup installs the process-wide logger. level accepts "debug", "info",
// "warn", "error"; anything else falls back to info.
func Setup(w io.Writer, level string) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// SetLogger replaces the process-wide logger directly. Used by tests.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func with(cat Category) *slog.Logger {
	return logger.Load().With("cat", string(cat))
}

// Debug logs a debug-level message with key-value pairs.
func Debug(cat Category, msg string, kv ...any) {
	with(cat).Debug(msg, kv...)
}

// Info logs an info-level message with key-value pairs.
func Info(cat Category, msg string, kv ...any) {
	with(cat).Info(msg, kv...)
}

// Warn logs a warn-level message with key-value pairs.
func Warn(cat Category, msg string, kv ...any) {
	with(cat).Warn(msg, kv...)
}

// Error logs an error-level message with key-value pairs.
func Error(cat Category, msg string, kv ...any) {
	with(cat).Error(msg, kv...)
}

// ErrorErr logs an error-level message with the error attached as an attribute.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	args := append([]any{"error", err}, kv...)
	with(cat).Error(msg, args...)
}
