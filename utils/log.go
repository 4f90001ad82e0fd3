package utils

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
// Unknown names map to slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// LogHandler is a slog.Handler writing one line per record:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, group.key=value
//
// A group qualifies only the attributes added after it was opened.
type LogHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Level
	fields []string // pre-rendered "key=value" pairs
	prefix string   // "group." for the open groups
}

// NewLogHandler creates a LogHandler that writes to w, filtering records below level.
func NewLogHandler(w io.Writer, level slog.Level) *LogHandler {
	return &LogHandler{w: w, level: level, mu: &sync.Mutex{}}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(r.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
	buf.WriteString(" [")
	buf.WriteString(r.Level.String())
	buf.WriteString("] ")
	buf.WriteString(r.Message)

	fields := append([]string(nil), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)
		return true
	})
	if len(fields) > 0 {
		buf.WriteString(" | ")
		buf.WriteString(strings.Join(fields, ", "))
	}
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

// WithAttrs returns a new LogHandler with the given attributes pre-applied
// under the groups opened so far.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := append([]string(nil), h.fields...)
	for _, a := range attrs {
		fields = appendAttr(fields, h.prefix, a)
	}
	return &LogHandler{w: h.w, mu: h.mu, level: h.level, fields: fields, prefix: h.prefix}
}

// WithGroup returns a new LogHandler qualifying the attributes added later with name.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LogHandler{w: h.w, mu: h.mu, level: h.level, fields: h.fields, prefix: h.prefix + name + "."}
}

// appendAttr renders a, flattening group values into dotted keys.
func appendAttr(fields []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, prefix, ga)
		}
		return fields
	}
	return append(fields, prefix+a.Key+"="+a.Value.String())
}

// NewLogger returns a logger writing to w. When path is not empty the records
// go to a size-rotated log file instead. The returned io.Closer must be closed
// on exit; it is a no-op when no file is involved.
func NewLogger(w io.Writer, path string, level slog.Level) (*slog.Logger, io.Closer) {
	if path == "" {
		return slog.New(NewLogHandler(w, level)), nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(NewLogHandler(lj, level)), lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
