// Package logger configures log/slog for the civic site and provides
// typed attribute helpers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Format selects the handler encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseLevel parses a level name; unknown names map to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configures New.
type Options struct {
	Level   string
	Format  Format
	Output  io.Writer
	Service string
}

// DefaultOptions returns JSON at info level on stdout.
func DefaultOptions() Options {
	return Options{Level: "info", Format: FormatJSON, Output: os.Stdout}
}

// New builds a logger. Debug level also records the source location.
func New(opts Options) *slog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	level := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	var handler slog.Handler
	if strings.EqualFold(string(opts.Format), string(FormatText)) {
		handler = slog.NewTextHandler(w, hopts)
	} else {
		handler = slog.NewJSONHandler(w, hopts)
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With(slog.String("service", opts.Service))
	}
	return log
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDefault returns log, or slog.Default when log is nil.
func OrDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT PROPAGATION
// ══════════════════════════════════════════════════════════════════════════════

type ctxKey struct{}

// WithContext stores log in ctx.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTRIBUTES
// ══════════════════════════════════════════════════════════════════════════════

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func Component(name string) slog.Attr   { return slog.String("component", name) }
func Operation(name string) slog.Attr   { return slog.String("operation", name) }
func Latency(d time.Duration) slog.Attr { return slog.Duration("latency", d) }
func ProjectID(id string) slog.Attr     { return slog.String("project_id", id) }
func EventID(id string) slog.Attr       { return slog.String("event_id", id) }
func NewsID(id string) slog.Attr        { return slog.String("news_id", id) }
func UserID(id string) slog.Attr        { return slog.String("user_id", id) }
func EventType(t string) slog.Attr      { return slog.String("event_type", t) }
func Job(name string) slog.Attr         { return slog.String("job", name) }
