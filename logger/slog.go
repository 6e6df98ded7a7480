package logger

import (
	"context"
	"log/slog"

	"github.com/philipp01105/rollinglog/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so log/slog producers can write through rollinglog. Attributes
// become structured state; the slog message is the rendered message.
type SlogHandler struct {
	logger *Logger
	attrs  []core.Field
	group  string
}

// NewSlogHandler creates a slog.Handler writing to l
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.IsEnabled(slogLevelToCore(level))
}

// Handle converts record and passes it to the logger
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	level := slogLevelToCore(record.Level)
	if !s.logger.IsEnabled(level) {
		return nil
	}

	fields := make(core.Fields, 0, len(s.attrs)+record.NumAttrs())
	fields = append(fields, s.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendSlogAttr(fields, s.group, a)
		return true
	})

	msg := record.Message
	render := func(any, error) string { return msg }
	if record.Time.IsZero() {
		s.logger.Log(level, core.EventID{}, fields, nil, render)
		return nil
	}
	s.logger.LogAt(record.Time, level, core.EventID{}, fields, nil, render)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendSlogAttr(newAttrs, s.group, a)
	}
	return &SlogHandler{logger: s.logger, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &SlogHandler{logger: s.logger, attrs: s.attrs[:len(s.attrs):len(s.attrs)], group: newGroup}
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InformationLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// appendSlogAttr flattens a into fields, prefixing keys with group.
// Group attributes expand into one field per member.
func appendSlogAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, member := range a.Value.Group() {
			fields = appendSlogAttr(fields, key, member)
		}
		return fields
	case slog.KindString:
		return append(fields, core.Field{Key: key, Type: core.StringType, Str: a.Value.String()})
	case slog.KindInt64:
		return append(fields, core.Field{Key: key, Type: core.Int64Type, Int64: a.Value.Int64()})
	case slog.KindUint64:
		return append(fields, core.FieldOf(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return append(fields, core.Field{Key: key, Type: core.Float64Type, Float64: a.Value.Float64()})
	case slog.KindBool:
		return append(fields, core.FieldOf(key, a.Value.Bool()))
	case slog.KindTime:
		return append(fields, core.Field{Key: key, Type: core.TimeType, Int64: a.Value.Time().UnixNano()})
	case slog.KindDuration:
		return append(fields, core.Field{Key: key, Type: core.DurationType, Int64: int64(a.Value.Duration())})
	default:
		return append(fields, core.FieldOf(key, a.Value.Any()))
	}
}
