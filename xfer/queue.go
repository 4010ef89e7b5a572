// Package xfer implements cross-thread transfer of urefs between a pipe
// running on one pump (and hence one goroutine) and a pipe running on
// another, via a proxy pipe pair connected by a bounded queue.
//
// Grounded on hztools-go-sdr's pipe.go (a context-cancelable, unbuffered
// handoff channel standing in for io.Pipe), generalized from a single
// Samples rendezvous to a bounded multi-item *upipe.URef queue with an
// explicit Close/CloseWithError lifecycle.
package xfer

import (
	"context"
	"sync"

	"upipe.dev/core"
)

// Policy selects what a full Queue does with a new Push: block the
// caller, drop the oldest queued uref to make room, or report busy
// immediately. The default, and the one every NewManager-created Queue
// starts with, is PolicyBlock: a transfer boundary must never silently
// lose data, matching the back-pressure guarantee every in-process
// helper.Input gives.
type Policy int

const (
	// PolicyBlock makes Push behave like Send: block until room frees
	// up or the queue closes.
	PolicyBlock Policy = iota
	// PolicyBusy makes Push behave like TrySend: fail immediately with
	// ErrWouldBlock if the queue is full.
	PolicyBusy
	// PolicyDropOldest makes Push free room by discarding (and
	// Free()-ing) the oldest queued uref, then enqueue the new one.
	// Intended for soft-realtime transfers (live preview) where
	// freshness matters more than completeness.
	PolicyDropOldest
)

// Queue is a one-way, bounded, thread-safe channel of urefs connecting
// a producer on one pump to a consumer on another. Unlike an unbounded
// Go channel, a full Queue's Send blocks (or fails with ErrWouldBlock in
// TrySend) so a transfer source can exert the same back-pressure an
// in-process helper.Input would.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	ch     chan *upipe.URef
	err    error
	closed bool
	policy Policy
}

// NewQueue creates a Queue with room for capacity in-flight urefs and
// PolicyBlock as its overflow policy.
func NewQueue(capacity int) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ctx:    ctx,
		cancel: cancel,
		ch:     make(chan *upipe.URef, capacity),
		policy: PolicyBlock,
	}
}

// SetPolicy changes the queue's overflow policy.
func (q *Queue) SetPolicy(p Policy) {
	q.mu.Lock()
	q.policy = p
	q.mu.Unlock()
}

// Push enqueues ref according to the queue's configured Policy.
func (q *Queue) Push(ref *upipe.URef) error {
	q.mu.Lock()
	policy := q.policy
	q.mu.Unlock()

	switch policy {
	case PolicyBusy:
		return q.TrySend(ref)
	case PolicyDropOldest:
		for {
			select {
			case q.ch <- ref:
				return nil
			case <-q.ctx.Done():
				return q.getErr()
			default:
			}
			select {
			case old := <-q.ch:
				old.Free()
			default:
			}
		}
	default:
		return q.Send(ref)
	}
}

// Send enqueues a uref, blocking if the queue is at capacity until room
// is available or the queue is closed.
func (q *Queue) Send(ref *upipe.URef) error {
	select {
	case q.ch <- ref:
		return nil
	case <-q.ctx.Done():
		return q.getErr()
	}
}

// TrySend enqueues a uref without blocking, returning ErrWouldBlock if
// the queue is currently full.
func (q *Queue) TrySend(ref *upipe.URef) error {
	select {
	case q.ch <- ref:
		return nil
	case <-q.ctx.Done():
		return q.getErr()
	default:
		return ErrWouldBlock
	}
}

// Recv dequeues the next uref, blocking until one is available or the
// queue is closed and drained.
func (q *Queue) Recv() (*upipe.URef, error) {
	select {
	case ref, ok := <-q.ch:
		if !ok {
			return nil, q.getErr()
		}
		return ref, nil
	case <-q.ctx.Done():
		select {
		case ref, ok := <-q.ch:
			if ok {
				return ref, nil
			}
		default:
		}
		return nil, q.getErr()
	}
}

// TryRecv dequeues the next uref without blocking, returning
// ErrWouldBlock if none is currently available. This is the call a
// pump idler should use to drain a Queue without stalling its pump's
// shared goroutine.
func (q *Queue) TryRecv() (*upipe.URef, error) {
	select {
	case ref, ok := <-q.ch:
		if !ok {
			return nil, q.getErr()
		}
		return ref, nil
	default:
		select {
		case <-q.ctx.Done():
			return nil, q.getErr()
		default:
			return nil, ErrWouldBlock
		}
	}
}

// Close closes the queue with upipe.ErrPipeClosed.
func (q *Queue) Close() error {
	return q.CloseWithError(upipe.ErrPipeClosed)
}

// CloseWithError closes the queue, causing blocked and future Send/Recv
// calls to observe err once any already-queued urefs have been drained.
func (q *Queue) CloseWithError(err error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	q.err = err
	q.cancel()
	return nil
}

func (q *Queue) getErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	return upipe.ErrPipeClosed
}

// ErrWouldBlock is returned by TrySend when the queue is at capacity,
// and by TryRecv (and so WorkerSource.TryPop) when it is empty.
var ErrWouldBlock = upipe.NewError("xfer.TrySend", upipe.CodeBusy, "queue is full")
