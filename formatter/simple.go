package formatter

import (
	"bytes"

	"github.com/philipp01105/rollinglog/core"
)

// SimpleLayout is the default timestamp layout of SimpleFormatter,
// e.g. "2016-05-04 03:02:01.000 +00:00".
const SimpleLayout = "2006-01-02 15:04:05.000 -07:00"

// SimpleFormatter formats records as human-readable lines:
//
//	2016-05-04 03:02:01.000 +00:00 [Information] Category: message
//
// When scopes are enabled for the record the scope chain follows the
// category and the message starts on its own line.
type SimpleFormatter struct {
	Config
}

// NewSimpleFormatter creates a new simple formatter
func NewSimpleFormatter(cfg Config) *SimpleFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = SimpleLayout
	}
	return &SimpleFormatter{Config: cfg}
}

// Name implements Formatter
func (f *SimpleFormatter) Name() string { return "simple" }

// Format formats a record as text
func (f *SimpleFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatRecord(rec, buf)
	return copyBuffer(buf), nil
}

// FormatRecord writes the formatted record into buf (implements BufferFormatter).
func (f *SimpleFormatter) FormatRecord(rec *core.Record, buf *bytes.Buffer) {
	buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(" [")
	buf.WriteString(rec.Level.String())
	buf.WriteString("] ")
	buf.WriteString(rec.Category)

	if rec.Scopes != nil {
		rec.Scopes.Each(func(scope any) {
			buf.WriteString(" => ")
			buf.WriteString(core.DefaultRender(scope, nil))
		})
		buf.WriteString(":\n")
	} else {
		buf.WriteString(": ")
	}

	buf.WriteString(rec.Message)
	buf.WriteByte('\n')

	if rec.Err != nil {
		buf.WriteString(rec.Err.Error())
		buf.WriteByte('\n')
	}
}
