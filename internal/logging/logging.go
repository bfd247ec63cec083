// Package logging provides structured diagnostic logging for the CLI.
// It wraps log/slog with a logger that discards everything until verbose
// mode is enabled, so command output stays clean and machine-mode stdout
// is never polluted (diagnostics go to stderr).
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger carries structured diagnostics through the launch pipeline.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
}

// New returns a Logger writing slog text lines to w at the given level.
func New(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// Verbose returns a debug-level Logger on stderr, used when --verbose is set.
func Verbose() *Logger {
	return New(os.Stderr, slog.LevelDebug)
}

// Nop returns a Logger that discards all output.
func Nop() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a child Logger with the given key-value attributes
// attached to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// Debug logs at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}
