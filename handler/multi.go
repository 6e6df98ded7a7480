package handler

import (
	"context"

	"go.uber.org/multierr"

	"github.com/philipp01105/rollinglog/core"
)

// MultiWriter sends every batch to a primary writer and any number of
// secondary ones. Only the primary's Result is reported; errors from
// all writers are combined.
type MultiWriter struct {
	primary   BatchWriter
	secondary []BatchWriter
}

// NewMultiWriter creates a multi-writer
func NewMultiWriter(primary BatchWriter, secondary ...BatchWriter) *MultiWriter {
	return &MultiWriter{primary: primary, secondary: secondary}
}

// WriteBatch implements BatchWriter. Secondary writers run even when the
// primary fails.
func (m *MultiWriter) WriteBatch(ctx context.Context, batch []core.Message) (Result, error) {
	res, err := m.primary.WriteBatch(ctx, batch)
	for _, w := range m.secondary {
		if _, werr := w.WriteBatch(ctx, batch); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	return res, err
}
