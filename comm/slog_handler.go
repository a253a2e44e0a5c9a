package comm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// slogHandler forwards slog records to comm, so the window and the
// controller log through the same channel as the CLI commands.
type slogHandler struct {
	level slog.Leveler
	// dotted group path, with a trailing dot
	prefix string
	// attributes bound with WithAttrs, already flattened
	fields JsonMessage
}

var _ slog.Handler = (*slogHandler)(nil)

// NewSlogHandler returns a slog.Handler that emits logs through comm.
// In JSON mode, records are sent as "log" messages with their attributes
// as extra fields. Otherwise attributes are appended to the message.
func NewSlogHandler(level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &slogHandler{
		level:  level,
		fields: JsonMessage{},
	}
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := JsonMessage{}
	for k, v := range h.fields {
		fields[k] = v
	}
	r.Attrs(func(attr slog.Attr) bool {
		flatten(fields, h.prefix, attr)
		return true
	})

	level := commLevel(r.Level)

	if JsonEnabled() {
		// debug records skip the verbose filter, the handler level already applied
		fields["type"] = "log"
		fields["time"] = recordTime(r).Unix()
		fields["level"] = level
		fields["message"] = r.Message
		sendJSON(fields)
		return nil
	}

	msg := r.Message
	if extra := formatFields(fields); extra != "" {
		msg = fmt.Sprintf("%s (%s)", msg, extra)
	}
	Logl(level, msg)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	for _, attr := range attrs {
		flatten(nh.fields, nh.prefix, attr)
	}
	return nh
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	nh := h.clone()
	nh.prefix = h.prefix + name + "."
	return nh
}

func (h *slogHandler) clone() *slogHandler {
	nh := &slogHandler{
		level:  h.level,
		prefix: h.prefix,
		fields: JsonMessage{},
	}
	for k, v := range h.fields {
		nh.fields[k] = v
	}
	return nh
}

func recordTime(r slog.Record) time.Time {
	if r.Time.IsZero() {
		return timeNow().UTC()
	}
	return r.Time.UTC()
}

func flatten(fields JsonMessage, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix = prefix + attr.Key + "."
		}
		for _, groupAttr := range attr.Value.Group() {
			flatten(fields, prefix, groupAttr)
		}
		return
	}

	if attr.Key == "" {
		return
	}
	fields[prefix+attr.Key] = fieldValue(attr.Value)
}

// fieldValue keeps values readable once encoded: an error would marshal
// to {} and a duration to a bare nanosecond count.
func fieldValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		}
		return v.Any()
	default:
		return v.Any()
	}
}

// formatFields renders fields as key=value, sorted by key
func formatFields(fields JsonMessage) string {
	var keys []string
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func commLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
