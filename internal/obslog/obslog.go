// Package obslog provides the request-scoped structured logger used by one
// distribute/recover invocation: every line it emits carries a correlation
// ID so a run's messages can be picked out of a shared log stream.
package obslog

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps log/slog with a fixed correlation ID attached to every line.
type Logger struct {
	logger        *slog.Logger
	correlationID string
}

// New creates a logger for one run, generating a fresh correlation ID.
// debug enables slog.LevelDebug; otherwise the floor is slog.LevelInfo.
func New(debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	id := uuid.NewString()
	return &Logger{
		logger:        slog.New(handler).With("run_id", id),
		correlationID: id,
	}
}

// CorrelationID returns the run's correlation ID, useful for tests and for
// echoing back in a diagnostic message.
func (l *Logger) CorrelationID() string {
	return l.correlationID
}

func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
