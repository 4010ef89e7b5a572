package probe

import (
	"sync"

	"upipe.dev/core"
)

type thrownEvent struct {
	pipe  upipe.Pipe
	event upipe.Event
	args  []interface{}
}

// TransferProbe buffers events thrown by a pipe running on a different
// pump than its probe chain's home pump, so crossing between them never
// calls the destination chain's Throw from the wrong goroutine. The
// destination side calls Drain, typically from an idler registered on
// its own pump, to replay buffered events in order.
//
// This is the probe-chain half of package xfer's cross-thread story:
// xfer.Queue moves urefs between pumps, TransferProbe moves the
// corresponding event notifications.
type TransferProbe struct {
	mu   sync.Mutex
	buf  []thrownEvent
	next upipe.Probe
}

// NewTransferProbe creates a TransferProbe that replays buffered events
// into next once Drain is called.
func NewTransferProbe(next upipe.Probe) *TransferProbe {
	return &TransferProbe{next: next}
}

// Throw implements upipe.Probe by buffering the event instead of
// dispatching it immediately.
func (p *TransferProbe) Throw(pipe upipe.Pipe, event upipe.Event, args ...interface{}) bool {
	p.mu.Lock()
	p.buf = append(p.buf, thrownEvent{pipe: pipe, event: event, args: args})
	p.mu.Unlock()
	return true
}

// Drain replays every buffered event into next, in the order they were
// thrown, and clears the buffer. Intended to run on the destination
// pump's own goroutine.
func (p *TransferProbe) Drain() {
	p.mu.Lock()
	buf := p.buf
	p.buf = nil
	p.mu.Unlock()
	if p.next == nil {
		return
	}
	for _, e := range buf {
		p.next.Throw(e.pipe, e.event, e.args...)
	}
}

// Pending reports how many events are currently buffered, for tests and
// metrics.
func (p *TransferProbe) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}
