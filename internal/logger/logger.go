// Package logger sets up structured logging and the attributes calendar
// requests are logged with.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zapponejosh/liturgical-calendar/internal/config"
)

// Context keys for request-scoped values
type contextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
)

// Setup builds the server logger from configuration, writing to stdout, and
// makes it the default. Call this once at application startup.
func Setup(cfg *config.Config) *slog.Logger {
	logger := New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

// New returns a logger writing to w. format is "json" or "text"; an
// unknown level logs at info.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a level name such as "warn" or "DEBUG" to a
// slog.Level, falling back to info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Calendar groups the calendar key and year a log line is about.
func Calendar(key string, year int) slog.Attr {
	return slog.Group("calendar",
		slog.String("key", key),
		slog.Int("year", year))
}

// Problems summarizes the per-definition failures of a generation run:
// how many there were and the first of them.
func Problems(errs []error) slog.Attr {
	if len(errs) == 0 {
		return slog.Int("problems", 0)
	}
	return slog.Group("problems",
		slog.Int("count", len(errs)),
		slog.String("first", errs[0].Error()))
}

// WithRequestID adds a request ID to the logger context.
// Use this in middleware to tag all logs for a request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the request ID from context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns base tagged with the request ID in ctx, if any.
// A nil base uses the default logger.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}

	if requestID := RequestID(ctx); requestID != "" {
		return base.With(slog.String("request_id", requestID))
	}

	return base
}

// ForCalendar is FromContext tagged with the calendar being served.
func ForCalendar(ctx context.Context, base *slog.Logger, key string, year int) *slog.Logger {
	return FromContext(ctx, base).With(Calendar(key, year))
}
