package filehandler

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/philipp01105/rollinglog/handler"
)

// FileConfig holds configuration for the rolling file handler
type FileConfig struct {
	// Options sets the file layout
	Options
	// FlushPeriod is the interval between flushes (default: 1s)
	FlushPeriod time.Duration
	// ShutdownTimeout bounds the final drain on Close (default: 5s)
	ShutdownTimeout time.Duration
	// BatchSize caps the records written per flush (0 = unlimited)
	BatchSize int
	// Disabled starts the handler with flushing switched off
	Disabled bool
	// Tee receives a copy of every flushed batch (optional)
	Tee handler.BatchWriter
	// Logger receives diagnostics (default: no-op)
	Logger *zap.Logger
	// MeterProvider for the handler's counters (default: global provider)
	MeterProvider metric.MeterProvider
}

// NewFileHandler creates a batching handler that writes to rolling files.
// Invalid options are reported here, never at flush time.
func NewFileHandler(cfg FileConfig) (*handler.BatchingHandler, error) {
	w, err := NewRollingWriter(cfg.Options, cfg.Logger)
	if err != nil {
		return nil, err
	}

	var bw handler.BatchWriter = w
	if cfg.Tee != nil {
		bw = handler.NewMultiWriter(w, cfg.Tee)
	}

	m, err := handler.NewMetrics(cfg.MeterProvider)
	if err != nil {
		return nil, err
	}

	return handler.NewBatchingHandler(handler.BatchConfig{
		Writer:          bw,
		Interval:        cfg.FlushPeriod,
		ShutdownTimeout: cfg.ShutdownTimeout,
		BatchSize:       cfg.BatchSize,
		StartDisabled:   cfg.Disabled,
		Logger:          cfg.Logger,
		Metrics:         m,
	})
}
