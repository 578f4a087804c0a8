package capset

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with capset-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LogAdd logs the addition of a capability.
func (l *Logger) LogAdd(namespace string, attributes int, err error) {
	if err != nil {
		l.Error("add capability failed",
			"namespace", namespace,
			"attributes", attributes,
			"error", err,
		)
	} else {
		l.Debug("capability added",
			"namespace", namespace,
			"attributes", attributes,
		)
	}
}

// LogRemove logs the removal of a capability.
func (l *Logger) LogRemove(namespace string, removed bool) {
	if !removed {
		l.Debug("remove ignored, capability not held",
			"namespace", namespace,
		)
		return
	}
	l.Debug("capability removed",
		"namespace", namespace,
	)
}

// LogMatch logs a match query.
func (l *Logger) LogMatch(filter string, enforceMandatory bool, matched int, elapsed time.Duration, err error) {
	if err != nil {
		l.Warn("match failed",
			"filter", filter,
			"error", err,
		)
	} else {
		l.Debug("match completed",
			"filter", filter,
			"mandatory", enforceMandatory,
			"matched", matched,
			"elapsed", elapsed,
		)
	}
}
