package handler

import (
	"context"

	"github.com/philipp01105/rollinglog/core"
)

// Handler defines the interface for log sinks
type Handler interface {
	// Handle accepts a rendered message. It must not block on I/O.
	Handle(msg core.Message) error

	// Close flushes what it can and releases resources
	Close() error
}

// Toggler is implemented by handlers that can be switched on and off at
// runtime without losing queued messages.
type Toggler interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
}

// Result reports how a batch was disposed of. Messages neither written
// nor dropped were lost to a write error.
type Result struct {
	// Written is the number of messages appended to their destination
	Written int
	// Dropped is the number of messages rejected because the destination
	// had no capacity left
	Dropped int
}

// BatchWriter persists a batch of messages in order. It is only ever
// called from one goroutine at a time.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch []core.Message) (Result, error)
}

// BatchWriterFunc adapts a function to BatchWriter.
type BatchWriterFunc func(ctx context.Context, batch []core.Message) (Result, error)

// WriteBatch implements BatchWriter
func (f BatchWriterFunc) WriteBatch(ctx context.Context, batch []core.Message) (Result, error) {
	return f(ctx, batch)
}
