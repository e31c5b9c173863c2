// Package log builds the process logger: log/slog at call sites, zerolog
// underneath. Correlation and request IDs stored in a context are added to
// every record logged with that context.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
)

type contextKey int

const (
	correlationIDKey contextKey = iota
	requestIDKey
)

// Logger pairs a slog.Logger with its zerolog-backed handler.
type Logger struct {
	handler *ZerologHandler
	logger  *slog.Logger
}

// NewLogger creates a stdout Logger from the configured format and level.
func NewLogger(cfg config.AppConfig) *Logger {
	return NewLoggerWithWriter(os.Stdout, cfg.LogFormat(), cfg.LogLevel())
}

// NewLoggerWithWriter creates a Logger that writes to w.
func NewLoggerWithWriter(w io.Writer, format config.LogFormat, level string) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h *ZerologHandler
	if format == config.LogFormatJSON {
		h = newJSONHandler(w, opts)
	} else {
		h = newConsoleHandler(w, opts)
	}
	return &Logger{handler: h, logger: slog.New(h)}
}

// ParseLevel maps DEBUG, INFO, WARN(ING) and ERROR to slog levels. Anything
// else is INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler returns the zerolog-backed slog.Handler.
func (l *Logger) Handler() slog.Handler { return l.handler }

// Slog returns the slog.Logger handed to components.
func (l *Logger) Slog() *slog.Logger { return l.logger }

// SetDefault installs the logger as slog's default.
func (l *Logger) SetDefault() { slog.SetDefault(l.logger) }

// WithCorrelationID returns ctx carrying a correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// WithRequestID returns ctx carrying a request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
