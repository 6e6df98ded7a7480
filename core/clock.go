package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies the wall-clock time stamped on records.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now on every call.
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// CoarseClock caches time.Now() and refreshes it on a fixed resolution from
// a background goroutine. Reads are a single atomic load, which matters for
// hot producers that log at high rates. Bucket assignment only needs minute
// resolution, so the staleness is harmless.
type CoarseClock struct {
	now      atomic.Pointer[time.Time]
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoarseClock starts a clock refreshing every resolution. A
// non-positive resolution defaults to 500µs. Stop must be called to
// release the goroutine.
func NewCoarseClock(resolution time.Duration) *CoarseClock {
	if resolution <= 0 {
		resolution = 500 * time.Microsecond
	}
	c := &CoarseClock{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	t := time.Now()
	c.now.Store(&t)

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(resolution)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t := time.Now()
				c.now.Store(&t)
			case <-c.stop:
				return
			}
		}
	}()
	return c
}

// Now returns the most recently cached time.
func (c *CoarseClock) Now() time.Time {
	return *c.now.Load()
}

// Stop terminates the refresh goroutine and waits for it to exit. The
// clock keeps returning the last cached value afterwards.
func (c *CoarseClock) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
