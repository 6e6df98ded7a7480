package handler

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/philipp01105/rollinglog/core"
)

// ConsoleWriter writes each batch to an io.Writer (default: stdout)
type ConsoleWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleWriter creates a console writer. A nil w writes to stdout.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleWriter{w: w}
}

// WriteBatch implements BatchWriter
func (c *ConsoleWriter) WriteBatch(ctx context.Context, batch []core.Message) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bw := bufio.NewWriter(c.w)
	for _, msg := range batch {
		if _, err := bw.WriteString(msg.Text); err != nil {
			return Result{}, err
		}
	}
	if err := bw.Flush(); err != nil {
		return Result{}, err
	}
	return Result{Written: len(batch)}, nil
}
