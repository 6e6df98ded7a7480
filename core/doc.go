// Package core defines the shared types used across rollinglog.
//
// A Record is the full log event handed to a formatter: wall-clock
// timestamp, Level, category, EventID, rendered message, optional error,
// structured state and the scope chain active when the record was created.
// Records are immutable once built and are rendered exactly once, on the
// producer goroutine. The result is a Message, the (timestamp, text) pair
// that travels through the batching queue to the rolling file writer.
//
// Field encodes common values into fixed-size numeric slots (Int64,
// Float64) so structured state such as template arguments does not need
// reflection to be rendered. Any is the fallback for arbitrary types.
//
// ScopeChain is a persistent linked list. Pushing a scope returns a new
// chain and never mutates the parent, so a chain captured by a record
// stays valid no matter what other goroutines push afterwards.
package core
