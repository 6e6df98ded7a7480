// Package handler provides the batching engine that sits between log
// producers and the filesystem.
//
// BatchingHandler accepts rendered messages from any number of goroutines
// into an unbounded Queue and hands them, in enqueue order, to a
// BatchWriter from one background goroutine. The goroutine wakes on a
// fixed interval (default 1s); at most one flush runs at a time, and a
// tick that arrives while a slow flush is still writing is merged into
// the next one. Producers never block and never see write errors.
//
// The handler can be switched off at runtime with SetEnabled(false).
// Ticks are then skipped and messages keep accumulating; nothing is lost
// when it is switched back on. Close performs one final drain bounded by
// a shutdown timeout.
//
// Every message is accounted for in Stats: enqueued, written, or dropped
// with a DropReason (capacity, closed, write_failed, disabled_at_shutdown,
// shutdown_timeout). Metrics mirrors the same counters to OpenTelemetry.
//
// Built-in writers:
//
//   - ConsoleWriter writes each batch to an io.Writer (default: stdout).
//   - MultiWriter fans a batch out to a primary writer plus secondary ones.
//   - filehandler.RollingWriter, in the subpackage, writes time-bucketed
//     rolling files with size limits and retention.
package handler
