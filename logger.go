package annogo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with annogo-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDocument adds a document id field to the logger.
func (l *Logger) WithDocument(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("document", id),
	}
}

// WithLanguage adds a language field to the logger.
func (l *Logger) WithLanguage(lang string) *Logger {
	return &Logger{
		Logger: l.Logger.With("language", lang),
	}
}

// LogAnnotate logs an annotate call.
func (l *Logger) LogAnnotate(ctx context.Context, docID string, requested string, ran bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "annotate failed",
			"document", docID,
			"requested", requested,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "annotate completed",
			"document", docID,
			"requested", requested,
			"ran", ran,
		)
	}
}

// LogBindings logs loading of annotator bindings.
func (l *Logger) LogBindings(ctx context.Context, source string, bindings int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "loading bindings failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "bindings loaded",
			"source", source,
			"bindings", bindings,
		)
	}
}
