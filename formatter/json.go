package formatter

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/philipp01105/rollinglog/core"
)

// JSONLayout is the default timestamp layout of JSONFormatter. Trailing
// zero fractions are trimmed and UTC is written as +00:00.
const JSONLayout = "2006-01-02T15:04:05.999999999-07:00"

// JSONFormatter formats records as one JSON object per line. Structured
// state goes under "State", dictionary scopes are merged into the root
// object and all other scopes are collected in a "Scopes" array.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = JSONLayout
	}
	return &JSONFormatter{Config: cfg}
}

// Name implements Formatter
func (f *JSONFormatter) Name() string { return "json" }

// Format formats a record as JSON
func (f *JSONFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatRecord(rec, buf)
	return copyBuffer(buf), nil
}

// FormatRecord formats a record as JSON into the given buffer (implements BufferFormatter).
func (f *JSONFormatter) FormatRecord(rec *core.Record, buf *bytes.Buffer) {
	buf.WriteString(`{"Timestamp":"`)
	buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	buf.WriteString(`","Level":"`)
	buf.WriteString(rec.Level.String())

	buf.WriteString(`","Category":"`)
	appendJSONString(buf, rec.Category)

	buf.WriteString(`","Message":"`)
	appendJSONString(buf, rec.Message)
	buf.WriteByte('"')

	if rec.Err != nil {
		buf.WriteString(`,"Exception":"`)
		appendJSONString(buf, flattenLines(rec.Err.Error()))
		buf.WriteByte('"')
	}

	var template string
	if rec.State != nil {
		buf.WriteString(`,"State":{`)
		if fp, ok := rec.State.(core.FieldProvider); ok {
			first := true
			for _, field := range fp.Fields() {
				if field.Key == core.OriginalFormatKey && field.Type == core.StringType {
					template = field.Str
					continue
				}
				if !first {
					buf.WriteByte(',')
				}
				first = false
				appendJSONField(buf, field)
			}
		} else {
			buf.WriteString(`"Message":"`)
			appendJSONString(buf, core.DefaultRender(rec.State, nil))
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}

	if template != "" {
		buf.WriteString(`,"MessageTemplate":"`)
		appendJSONString(buf, template)
		buf.WriteByte('"')
	}

	if rec.Scopes != nil {
		var values []core.Field
		rec.Scopes.Each(func(scope any) {
			if fp, ok := scope.(core.FieldProvider); ok {
				for _, field := range fp.Fields() {
					buf.WriteByte(',')
					appendJSONField(buf, field)
				}
				return
			}
			values = append(values, core.FieldOf("", scope))
		})
		if len(values) > 0 {
			buf.WriteString(`,"Scopes":[`)
			for i, v := range values {
				if i > 0 {
					buf.WriteByte(',')
				}
				appendJSONFieldValue(buf, v)
			}
			buf.WriteByte(']')
		}
	}

	buf.WriteString("}\n")
}

// flattenLines puts a multi-line error message on a single line.
func flattenLines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func appendJSONField(buf *bytes.Buffer, field core.Field) {
	buf.WriteByte('"')
	appendJSONString(buf, field.Key)
	buf.WriteString(`":`)
	appendJSONFieldValue(buf, field)
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONFieldValue writes a JSON-encoded field value to the buffer
func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType, core.ErrorType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	case core.IntType, core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		// NaN and Inf have no JSON number form
		if math.IsNaN(field.Float64) || math.IsInf(field.Float64, 0) {
			buf.WriteByte('"')
			buf.WriteString(field.StringValue())
			buf.WriteByte('"')
			return
		}
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.NullType:
		buf.WriteString("null")
	default:
		buf.WriteByte('"')
		appendJSONString(buf, field.StringValue())
		buf.WriteByte('"')
	}
}
