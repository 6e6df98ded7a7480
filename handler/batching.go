package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/rollinglog/core"
)

var (
	// ErrClosed is returned when a message or flush arrives after Close
	ErrClosed = errors.New("handler: closed")
	// ErrShutdownTimeout is returned by Close when the final drain did
	// not finish within the shutdown timeout
	ErrShutdownTimeout = errors.New("handler: shutdown timed out")
	// ErrNoWriter is returned when a BatchingHandler has nothing to write to
	ErrNoWriter = errors.New("handler: batch writer is required")
)

// State is the lifecycle state of a BatchingHandler
type State int32

const (
	StateStopped State = iota
	StateRunning
	StateDraining
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	default:
		return "Unknown"
	}
}

// BatchConfig holds configuration for the batching handler
type BatchConfig struct {
	// Writer receives every flushed batch (required)
	Writer BatchWriter
	// Interval between flushes (default: 1s)
	Interval time.Duration
	// ShutdownTimeout bounds the final drain on Close (default: 5s)
	ShutdownTimeout time.Duration
	// BatchSize caps the messages written per flush (0 = unlimited)
	BatchSize int
	// StartDisabled starts the handler with flushing switched off
	StartDisabled bool
	// Logger receives the handler's own diagnostics (default: no-op)
	Logger *zap.Logger
	// Metrics mirrors the counters to OpenTelemetry (default: global provider)
	Metrics *Metrics
}

type flushRequest struct {
	ctx   context.Context
	reply chan error
}

// BatchingHandler queues messages from any number of goroutines and writes
// them in batches from a single background goroutine. The goroutine wakes
// on a fixed interval; at most one flush runs at a time.
type BatchingHandler struct {
	writer          BatchWriter
	queue           *Queue
	interval        time.Duration
	shutdownTimeout time.Duration
	batchSize       int
	log             *zap.Logger
	stats           *Stats
	metrics         *Metrics

	enabled atomic.Bool
	state   atomic.Int32

	flushReq  chan flushRequest
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewBatchingHandler starts a batching handler. The background goroutine
// runs until Close.
func NewBatchingHandler(cfg BatchConfig) (*BatchingHandler, error) {
	if cfg.Writer == nil {
		return nil, ErrNoWriter
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.BatchSize < 0 {
		return nil, fmt.Errorf("handler: batch size must not be negative, got %d", cfg.BatchSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		m, err := NewMetrics(nil)
		if err != nil {
			return nil, fmt.Errorf("handler: create metrics: %w", err)
		}
		cfg.Metrics = m
	}

	h := &BatchingHandler{
		writer:          cfg.Writer,
		queue:           NewQueue(),
		interval:        cfg.Interval,
		shutdownTimeout: cfg.ShutdownTimeout,
		batchSize:       cfg.BatchSize,
		log:             cfg.Logger,
		stats:           NewStats(),
		metrics:         cfg.Metrics,
		flushReq:        make(chan flushRequest),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	h.enabled.Store(!cfg.StartDisabled)
	h.state.Store(int32(StateRunning))

	go h.run()
	return h, nil
}

// Handle queues msg for the next flush. It never blocks on I/O.
func (h *BatchingHandler) Handle(msg core.Message) error {
	if !h.queue.Push(msg) {
		h.stats.AddDropped(DropClosed, 1)
		h.metrics.RecordDropped(context.Background(), DropClosed, 1)
		return ErrClosed
	}
	h.stats.IncrementEnqueued()
	h.metrics.RecordEnqueued(context.Background())
	return nil
}

// SetEnabled switches flushing on or off. While disabled, ticks are
// skipped and messages stay queued.
func (h *BatchingHandler) SetEnabled(enabled bool) {
	if h.enabled.Swap(enabled) != enabled {
		h.log.Info("sink toggled", zap.Bool("enabled", enabled), zap.Int("pending", h.queue.Len()))
	}
}

// IsEnabled reports whether flushing is switched on
func (h *BatchingHandler) IsEnabled() bool {
	return h.enabled.Load()
}

// State returns the lifecycle state
func (h *BatchingHandler) State() State {
	return State(h.state.Load())
}

// Pending returns the number of queued messages
func (h *BatchingHandler) Pending() int {
	return h.queue.Len()
}

// Stats returns a snapshot of the current statistics
func (h *BatchingHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Flush runs one flush cycle on the background goroutine and waits for
// it. It behaves exactly like a tick: nothing is written while the
// handler is disabled, and at most BatchSize messages are written. ctx
// only bounds the wait; a batch taken off the queue is always written in
// full, even after Flush has returned ctx.Err().
func (h *BatchingHandler) Flush(ctx context.Context) error {
	req := flushRequest{ctx: ctx, reply: make(chan error, 1)}
	select {
	case h.flushReq <- req:
	case <-h.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the background goroutine after a final drain. The drain is
// bounded by the shutdown timeout; Close returns ErrShutdownTimeout if
// it is exceeded. Close is idempotent.
func (h *BatchingHandler) Close() error {
	h.closeOnce.Do(func() {
		close(h.stop)
		timer := time.NewTimer(h.shutdownTimeout)
		defer timer.Stop()
		select {
		case <-h.done:
		case <-timer.C:
			h.log.Warn("final drain did not finish in time", zap.Duration("timeout", h.shutdownTimeout))
			h.closeErr = ErrShutdownTimeout
		}
	})
	return h.closeErr
}

func (h *BatchingHandler) run() {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = h.flush(context.Background())
		case req := <-h.flushReq:
			req.reply <- h.flush(context.WithoutCancel(req.ctx))
		case <-h.stop:
			h.drain()
			return
		}
	}
}

// flush performs one flush cycle
func (h *BatchingHandler) flush(ctx context.Context) error {
	if !h.enabled.Load() {
		h.stats.IncrementFlush(FlushSkipped)
		h.metrics.RecordFlush(ctx, FlushSkipped)
		return nil
	}
	batch := h.queue.Drain(h.batchSize)
	if len(batch) == 0 {
		return nil
	}
	return h.writeBatch(ctx, batch)
}

// drain performs the final pass after Close
func (h *BatchingHandler) drain() {
	h.state.Store(int32(StateDraining))
	defer h.state.Store(int32(StateStopped))

	h.queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if !h.enabled.Load() {
		if n := len(h.queue.Drain(0)); n > 0 {
			h.stats.AddDropped(DropDisabledAtShutdown, n)
			h.metrics.RecordDropped(ctx, DropDisabledAtShutdown, n)
			h.log.Warn("sink disabled at shutdown, discarding queued records", zap.Int("records", n))
		}
		return
	}

	for {
		if ctx.Err() != nil {
			if n := len(h.queue.Drain(0)); n > 0 {
				h.stats.AddDropped(DropShutdownTimeout, n)
				h.metrics.RecordDropped(context.Background(), DropShutdownTimeout, n)
				h.log.Warn("shutdown timeout reached, discarding queued records", zap.Int("records", n))
			}
			return
		}
		batch := h.queue.Drain(h.batchSize)
		if len(batch) == 0 {
			return
		}
		_ = h.writeBatch(ctx, batch)
	}
}

// writeBatch hands batch to the writer and accounts for every message in
// it. A panicking writer is treated like a failed write; since it reports
// no Result, its whole batch counts as write_failed.
func (h *BatchingHandler) writeBatch(ctx context.Context, batch []core.Message) (err error) {
	var res Result
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler: batch writer panicked: %v", r)
		}

		lost := len(batch) - res.Written - res.Dropped
		if lost < 0 {
			lost = 0
		}
		h.stats.AddWritten(res.Written)
		h.stats.AddDropped(DropCapacity, res.Dropped)
		h.stats.AddDropped(DropWriteFailed, lost)
		h.metrics.RecordWritten(ctx, res.Written)
		h.metrics.RecordDropped(ctx, DropCapacity, res.Dropped)
		h.metrics.RecordDropped(ctx, DropWriteFailed, lost)

		if err != nil {
			h.stats.IncrementFlush(FlushError)
			h.metrics.RecordFlush(ctx, FlushError)
			h.log.Warn("flush failed",
				zap.Error(err),
				zap.Int("records", len(batch)),
				zap.Int("written", res.Written),
				zap.Int("lost", lost))
			return
		}
		h.stats.IncrementFlush(FlushOK)
		h.metrics.RecordFlush(ctx, FlushOK)
		if res.Dropped > 0 {
			h.log.Debug("records dropped, bucket capacity exhausted", zap.Int("records", res.Dropped))
		}
	}()

	res, err = h.writer.WriteBatch(ctx, batch)
	return err
}
