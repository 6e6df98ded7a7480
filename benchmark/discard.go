// Package benchmark compares the producer path of rollinglog with other
// Go loggers. It is a separate module so the comparison libraries stay
// out of the main go.mod.
package benchmark

import (
	"context"

	"github.com/philipp01105/rollinglog/core"
	"github.com/philipp01105/rollinglog/handler"
)

// noopHandler accepts and discards rendered messages
type noopHandler struct{}

func newNoopHandler() handler.Handler {
	return noopHandler{}
}

func (noopHandler) Handle(msg core.Message) error {
	_ = len(msg.Text)
	return nil
}

func (noopHandler) Close() error {
	return nil
}

// discardWriter is a BatchWriter that writes nowhere
var discardWriter = handler.BatchWriterFunc(func(_ context.Context, batch []core.Message) (handler.Result, error) {
	return handler.Result{Written: len(batch)}, nil
})
