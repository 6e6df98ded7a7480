package handler

import (
	"sync/atomic"
)

// DropReason classifies why a message never reached its file
type DropReason uint8

const (
	// DropCapacity means every file slot of the message's bucket was full
	DropCapacity DropReason = iota
	// DropClosed means the message arrived after Close
	DropClosed
	// DropWriteFailed means the flush carrying the message failed
	DropWriteFailed
	// DropDisabledAtShutdown means the sink was disabled when it shut down
	DropDisabledAtShutdown
	// DropShutdownTimeout means the final drain ran out of time
	DropShutdownTimeout

	numDropReasons
)

// String returns the metric attribute value of the reason
func (r DropReason) String() string {
	switch r {
	case DropCapacity:
		return "capacity"
	case DropClosed:
		return "closed"
	case DropWriteFailed:
		return "write_failed"
	case DropDisabledAtShutdown:
		return "disabled_at_shutdown"
	case DropShutdownTimeout:
		return "shutdown_timeout"
	default:
		return "unknown"
	}
}

// FlushStatus is the outcome of one flush cycle
type FlushStatus uint8

const (
	FlushOK FlushStatus = iota
	FlushError
	// FlushSkipped counts ticks that found the sink disabled
	FlushSkipped

	numFlushStatuses
)

// String returns the metric attribute value of the status
func (s FlushStatus) String() string {
	switch s {
	case FlushOK:
		return "ok"
	case FlushError:
		return "error"
	case FlushSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Stats tracks handler statistics
type Stats struct {
	enqueued uint64
	written  uint64
	dropped  [numDropReasons]uint64
	flushes  [numFlushStatuses]uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementEnqueued atomically increments the enqueued counter
func (s *Stats) IncrementEnqueued() {
	atomic.AddUint64(&s.enqueued, 1)
}

// AddWritten atomically adds n to the written counter
func (s *Stats) AddWritten(n int) {
	atomic.AddUint64(&s.written, uint64(n))
}

// AddDropped atomically adds n to the dropped counter of reason
func (s *Stats) AddDropped(reason DropReason, n int) {
	if reason < numDropReasons {
		atomic.AddUint64(&s.dropped[reason], uint64(n))
	}
}

// IncrementFlush atomically counts one flush with the given outcome
func (s *Stats) IncrementFlush(status FlushStatus) {
	if status < numFlushStatuses {
		atomic.AddUint64(&s.flushes[status], 1)
	}
}

// GetEnqueued returns the enqueued count
func (s *Stats) GetEnqueued() uint64 {
	return atomic.LoadUint64(&s.enqueued)
}

// GetWritten returns the written count
func (s *Stats) GetWritten() uint64 {
	return atomic.LoadUint64(&s.written)
}

// GetDropped returns the dropped count for a reason
func (s *Stats) GetDropped(reason DropReason) uint64 {
	if reason >= numDropReasons {
		return 0
	}
	return atomic.LoadUint64(&s.dropped[reason])
}

// GetTotalDropped returns the total dropped across all reasons
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += atomic.LoadUint64(&s.dropped[i])
	}
	return total
}

// GetFlushes returns the number of flushes with the given outcome
func (s *Stats) GetFlushes(status FlushStatus) uint64 {
	if status >= numFlushStatuses {
		return 0
	}
	return atomic.LoadUint64(&s.flushes[status])
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.enqueued, 0)
	atomic.StoreUint64(&s.written, 0)
	for i := range s.dropped {
		atomic.StoreUint64(&s.dropped[i], 0)
	}
	for i := range s.flushes {
		atomic.StoreUint64(&s.flushes[i], 0)
	}
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	Enqueued uint64
	Written  uint64
	Dropped  map[DropReason]uint64
	Flushes  map[FlushStatus]uint64
}

// TotalDropped sums Dropped over all reasons
func (s Snapshot) TotalDropped() uint64 {
	var total uint64
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		Enqueued: s.GetEnqueued(),
		Written:  s.GetWritten(),
		Dropped:  make(map[DropReason]uint64, numDropReasons),
		Flushes:  make(map[FlushStatus]uint64, numFlushStatuses),
	}
	for r := DropReason(0); r < numDropReasons; r++ {
		snap.Dropped[r] = s.GetDropped(r)
	}
	for st := FlushStatus(0); st < numFlushStatuses; st++ {
		snap.Flushes[st] = s.GetFlushes(st)
	}
	return snap
}
