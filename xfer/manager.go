package xfer

import (
	"sync"

	"upipe.dev/core"
)

// Manager tracks the Queues created to move urefs across pump
// boundaries, so an application can drain and close them all together
// during shutdown rather than leaking a goroutine per transfer.
type Manager struct {
	mu     sync.Mutex
	queues map[*Queue]struct{}
}

// NewManager creates an empty transfer manager.
func NewManager() *Manager {
	return &Manager{queues: map[*Queue]struct{}{}}
}

// NewQueue creates a Queue of the given capacity and registers it with
// the manager.
func (m *Manager) NewQueue(capacity int) *Queue {
	q := NewQueue(capacity)
	m.mu.Lock()
	m.queues[q] = struct{}{}
	m.mu.Unlock()
	return q
}

// Forget deregisters a queue, e.g. once both ends have been torn down
// individually.
func (m *Manager) Forget(q *Queue) {
	m.mu.Lock()
	delete(m.queues, q)
	m.mu.Unlock()
}

// CloseAll closes every queue the manager still tracks.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for q := range m.queues {
		q.Close()
	}
}

// WorkerSource adapts the receiving end of a Queue into something a
// pipe on the destination pump can drive from its own event loop: each
// call to Pop either returns the next transferred uref or reports that
// the source side has closed.
type WorkerSource struct {
	q *Queue
}

// NewWorkerSource wraps q for consumption on the destination side of a
// transfer.
func NewWorkerSource(q *Queue) *WorkerSource {
	return &WorkerSource{q: q}
}

// Pop blocks until a uref is available or the queue is closed. Use
// TryPop instead from a pump watcher callback, which must never block.
func (s *WorkerSource) Pop() (*upipe.URef, error) {
	return s.q.Recv()
}

// TryPop dequeues the next uref without blocking, returning
// ErrWouldBlock if none is ready yet.
func (s *WorkerSource) TryPop() (*upipe.URef, error) {
	return s.q.TryRecv()
}

// WorkerSink adapts the sending end of a Queue into the target of a
// proxy pipe's Input operation on the origin side of a transfer.
type WorkerSink struct {
	q *Queue
}

// NewWorkerSink wraps q for production on the origin side of a
// transfer.
func NewWorkerSink(q *Queue) *WorkerSink {
	return &WorkerSink{q: q}
}

// Push enqueues ref according to the underlying Queue's configured
// Policy.
func (s *WorkerSink) Push(ref *upipe.URef) error {
	return s.q.Push(ref)
}
