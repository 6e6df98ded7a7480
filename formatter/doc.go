// Package formatter defines how log records are rendered into text.
//
// A Formatter turns one core.Record into one line of output (or more,
// for the simple format when an error is attached). Formatters are pure:
// no I/O, no shared mutable state. The sink renders each record once, on
// the producer goroutine, and queues only the resulting text.
//
// Formatters are selected by name from a Registry. The built-in set is
// "simple" (SimpleFormatter, the default) and "json" (JSONFormatter).
// Hosts may Register their own. Lookup of an unregistered name fails with
// ErrUnknownFormatter, which the logger Builder surfaces at Build time.
//
// Both built-in formatters also implement BufferFormatter and use a
// pooled bytes.Buffer with Go's Append-style functions
// (time.AppendFormat, strconv.AppendInt) to avoid per-call allocations.
// Buffers larger than 64 KiB are not returned to the pool to prevent a
// single large log line from permanently inflating memory usage.
package formatter
