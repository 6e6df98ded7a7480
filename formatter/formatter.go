package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/rollinglog/core"
)

// Formatter renders a single record into one unit of output text. The
// returned bytes include the trailing newline. Implementations must not
// perform I/O and must be safe for concurrent use.
type Formatter interface {
	// Name is the key the formatter is registered and selected by
	Name() string
	// Format formats a log record into bytes
	Format(rec *core.Record) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatRecord formats a log record into the given buffer.
	FormatRecord(rec *core.Record, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// TimestampFormat overrides the formatter's default time layout
	TimestampFormat string
}

// Render formats rec with f and returns the text, taking the
// BufferFormatter path when f supports it.
func Render(f Formatter, rec *core.Record) (string, error) {
	if bf, ok := f.(BufferFormatter); ok {
		buf := getBuffer()
		bf.FormatRecord(rec, buf)
		s := buf.String()
		putBuffer(buf)
		return s, nil
	}
	b, err := f.Format(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// copyBuffer detaches the formatted bytes from a pooled buffer.
func copyBuffer(buf *bytes.Buffer) []byte {
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}
