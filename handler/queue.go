package handler

import (
	"sync"

	"github.com/philipp01105/rollinglog/core"
)

// Queue is an unbounded FIFO of messages. Any number of goroutines may
// Push; a single consumer drains it.
type Queue struct {
	mu     sync.Mutex
	items  []core.Message
	closed bool
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends msg. It reports false once the queue has been closed.
func (q *Queue) Push(msg core.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, msg)
	return true
}

// Drain removes and returns up to limit messages from the head of the
// queue. A limit <= 0 drains everything.
func (q *Queue) Drain(limit int) []core.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if limit <= 0 || limit >= len(q.items) {
		out := q.items
		q.items = nil
		return out
	}

	out := make([]core.Message, limit)
	copy(out, q.items)
	rest := make([]core.Message, len(q.items)-limit)
	copy(rest, q.items[limit:])
	q.items = rest
	return out
}

// Len returns the number of queued messages
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further pushes. Messages already queued can still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
