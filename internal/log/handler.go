package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologHandler is a slog.Handler that writes records through zerolog.
//
// Pretty output uses zerolog.ConsoleWriter:
//
//	15:04:05.000 INF server started port=8080
type ZerologHandler struct {
	logger zerolog.Logger
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newJSONHandler(w io.Writer, opts *slog.HandlerOptions) *ZerologHandler {
	return newZerologHandler(w, opts)
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ZerologHandler {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
		NoColor:    w != os.Stdout && w != os.Stderr,
	}
	return newZerologHandler(console, opts)
}

func newZerologHandler(w io.Writer, opts *slog.HandlerOptions) *ZerologHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &ZerologHandler{
		logger: zerolog.New(w).Level(zerolog.TraceLevel),
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ZerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as a single zerolog event.
func (h *ZerologHandler) Handle(ctx context.Context, r slog.Record) error {
	ev := h.logger.WithLevel(zerologLevel(r.Level))
	if ev == nil {
		return nil
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ev = ev.Time(zerolog.TimestampFieldName, ts)

	if ctx != nil {
		if id := CorrelationID(ctx); id != "" {
			ev = ev.Str("correlation_id", id)
		}
		if id := RequestID(ctx); id != "" {
			ev = ev.Str("request_id", id)
		}
	}
	for _, a := range h.attrs {
		appendAttr(ev, a, nil)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(ev, a, h.groups)
		return true
	})

	ev.Msg(r.Message)
	return nil
}

// WithAttrs returns a new handler whose attributes consist of both the
// existing attributes and attrs.
func (h *ZerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	for _, a := range attrs {
		// Attributes are bound to the groups open at the time they are added.
		if len(h.groups) > 0 {
			a = slog.Attr{Key: strings.Join(h.groups, "."), Value: slog.GroupValue(a)}
		}
		merged = append(merged, a)
	}
	return &ZerologHandler{
		logger: h.logger,
		level:  h.level,
		attrs:  merged,
		groups: h.groups,
	}
}

// WithGroup returns a new handler with the given group name prepended to
// subsequent attribute keys.
func (h *ZerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	extended := make([]string, len(h.groups)+1)
	copy(extended, h.groups)
	extended[len(h.groups)] = name
	return &ZerologHandler{
		logger: h.logger,
		level:  h.level,
		attrs:  h.attrs,
		groups: extended,
	}
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func appendAttr(ev *zerolog.Event, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := groups
		if a.Key != "" {
			prefix = make([]string, len(groups)+1)
			copy(prefix, groups)
			prefix[len(groups)] = a.Key
		}
		for _, ga := range a.Value.Group() {
			appendAttr(ev, ga, prefix)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	v := a.Value
	switch v.Kind() {
	case slog.KindString:
		ev.Str(key, v.String())
	case slog.KindInt64:
		ev.Int64(key, v.Int64())
	case slog.KindUint64:
		ev.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		ev.Float64(key, v.Float64())
	case slog.KindBool:
		ev.Bool(key, v.Bool())
	case slog.KindDuration:
		ev.Str(key, v.Duration().String())
	case slog.KindTime:
		ev.Time(key, v.Time())
	default:
		if err, ok := v.Any().(error); ok {
			ev.AnErr(key, err)
			return
		}
		ev.Interface(key, v.Any())
	}
}
