package psort

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with psort-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRunID adds a run ID field to the logger (useful for tagging one CLI invocation).
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithWorkers adds a max_workers field to the logger.
func (l *Logger) WithWorkers(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("max_workers", n),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSort logs a completed sort call.
func (l *Logger) LogSort(n, maxWorkers int, stats Stats, d time.Duration, err error) {
	if err != nil {
		l.Error("sort failed",
			"count", n,
			"max_workers", maxWorkers,
			"duration", d,
			"error", err,
		)
		return
	}
	l.Debug("sort completed",
		"count", n,
		"max_workers", maxWorkers,
		"duration", d,
		"partitions", stats.Partitions,
		"spawned", stats.Spawned,
		"inline", stats.Inline,
		"denied", stats.Denied,
		"peak_workers", stats.PeakWorkers,
		"max_depth", stats.MaxDepth,
	)
}

// LogRead logs reading the input sequence.
func (l *Logger) LogRead(ctx context.Context, location string, count int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "input read",
			"location", location,
			"count", count,
			"duration", d,
		)
	}
}

// LogWrite logs writing the sorted sequence.
func (l *Logger) LogWrite(ctx context.Context, location string, count int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "output written",
			"location", location,
			"count", count,
			"duration", d,
		)
	}
}
