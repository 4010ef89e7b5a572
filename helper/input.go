package helper

import (
	"upipe.dev/core"
	"upipe.dev/core/pump"
)

// ErrBufferOverrun is returned by Input.Push once the queue is at
// capacity, whatever SetBlocking was given. Named after hztools-go-sdr's
// stream.ErrBufferOverrun, which BufPipe returns in the same
// situation.
var ErrBufferOverrun = upipe.NewError("helper.Input", upipe.CodeBusy, "input queue overrun")

// Input is a bounded FIFO of urefs a pipe can use to decouple "a uref
// arrived" from "we are ready to process it": Push hands urefs to the
// process callback synchronously for as long as it accepts them, queues
// a uref it refuses, and reports ErrBufferOverrun once the queue is
// full. Push never blocks; WhenReady lets a caller learn, via a
// pump.Blocker, when room frees up.
//
// Grounded on stream/bufpipe.go's BufPipe, which queues writes into a
// channel and drains them on a background goroutine; Input keeps the
// same bounded-queue-plus-overrun-error shape but drains synchronously
// from Push (called from the pipe's own Input method) instead of a
// dedicated goroutine, since a upipe pipe must do all its work on its
// owning pump.
type Input struct {
	capacity int
	queue    []*upipe.URef
	blocking bool
	blocker  *pump.Blocker
	process  func(*upipe.URef) error
}

// NewInput creates an Input helper with the given capacity. process is
// called for each uref, in order, as soon as it can be; a process
// implementation must not itself block.
func NewInput(capacity int, process func(*upipe.URef) error) *Input {
	return &Input{capacity: capacity, process: process}
}

// SetBlocking controls whether WhenReady arms anything: true makes
// WhenReady arm a pump.Blocker that calls its onReady callback once
// room frees up, so the upstream producer can pause itself instead of
// Push blocking the shared pump goroutine; false (the default) makes
// WhenReady a no-op. Push behaves the same in both modes and rejects a
// uref with ErrBufferOverrun once the queue is full.
func (in *Input) SetBlocking(blocking bool) {
	in.blocking = blocking
}

// Push accepts one uref. It first attempts to drain any already-queued
// backlog, then, if the queue is empty, tries process on ref
// immediately and synchronously - the fast path every linear
// pass-through pipe takes. If process fails at either point (e.g. a
// downstream sink reports ErrWouldBlock), ref is enqueued for a later
// drain rather than being returned to the caller, since Push's contract
// is that it always either queues, forwards, or frees ref - never
// discards it silently. If the queue is already full, the uref is
// rejected with ErrBufferOverrun regardless of blocking mode, since
// accepting it would grow the queue without bound - blocking mode only
// changes whether WhenReady has anything to report afterward.
func (in *Input) Push(ref *upipe.URef) error {
	in.drain()
	if len(in.queue) == 0 {
		if err := in.process(ref); err == nil {
			return nil
		}
	}
	if len(in.queue) >= in.capacity {
		return ErrBufferOverrun
	}
	in.queue = append(in.queue, ref)
	return nil
}

// WhenReady arms a callback to be invoked, via mgr's pump loop, the
// next time the queue has room for another Push. A caller that got
// ErrBufferOverrun from Push in blocking mode uses this to pause its
// own upstream (e.g. stop reading from a socket) until notified.
// Has no effect if SetBlocking(false) (the default).
func (in *Input) WhenReady(mgr pump.Manager, onReady func()) {
	if !in.blocking {
		return
	}
	if in.blocker == nil {
		in.blocker = pump.NewBlocker(mgr, func() bool { return len(in.queue) < in.capacity })
	}
	in.blocker.Arm(onReady)
}

// drain processes as much of the queue as possible, stopping at the
// first error (which is dropped here; callers that need per-uref error
// reporting should keep the queue short enough that Push's synchronous
// path handles the common case).
func (in *Input) drain() {
	for len(in.queue) > 0 {
		ref := in.queue[0]
		if err := in.process(ref); err != nil {
			return
		}
		in.queue = in.queue[1:]
	}
}

// Len reports the number of urefs currently queued (not counting one
// being processed synchronously by Push).
func (in *Input) Len() int {
	return len(in.queue)
}

// Flush drops every queued uref, freeing each one. Used when a pipe is
// torn down with work still queued.
func (in *Input) Flush() {
	for _, ref := range in.queue {
		ref.Free()
	}
	in.queue = nil
}
