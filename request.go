package upipe

import "github.com/google/uuid"

// RequestKind identifies the resource a Request is asking for.
type RequestKind int

const (
	// RequestFlowFormat asks for confirmation/negotiation of a flow
	// definition before a pipe commits to producing it.
	RequestFlowFormat RequestKind = iota
	// RequestURefMgr asks for a uref allocator.
	RequestURefMgr
	// RequestUbufMgr asks for a umem/ubuf manager matching a flow
	// definition carried in Request.FlowDef.
	RequestUbufMgr
	// RequestUclock asks for a clock reference.
	RequestUclock
	// RequestSinkLatency asks a sink for the latency it introduces, so
	// upstream pipes can budget buffering.
	RequestSinkLatency
	// RequestSinkMaxDelay asks a sink for the maximum delay it can
	// tolerate before dropping data.
	RequestSinkMaxDelay
	// RequestSinkMaxOversize asks a sink for the maximum buffer size it
	// can accept in a single input.
	RequestSinkMaxOversize
)

// Request is a pull-mode resource request: a pipe that needs a resource
// it cannot manufacture itself (a clock, an allocator, a negotiated
// flow format) registers a Request via CommandRegisterRequest. Pipes
// along the probe chain either answer it directly by calling Answer, or
// forward it upstream via EventProvideRequest until some pipe or the
// application can satisfy it.
type Request struct {
	ID      uuid.UUID
	Kind    RequestKind
	FlowDef string

	answer func(result interface{}) error
	done   bool
}

// NewRequest creates a Request of the given kind, tagged with a fresh
// ID so a transfer manager or log probe can correlate its lifecycle
// across pipes and, for cross-thread requests, across xfer queues.
// answer is invoked exactly once, by whichever pipe or application code
// ultimately resolves the request.
func NewRequest(kind RequestKind, answer func(result interface{}) error) *Request {
	return &Request{ID: uuid.New(), Kind: kind, answer: answer}
}

// Answer resolves the request with result, calling the registered
// callback. Calling Answer more than once is a no-op after the first
// call.
func (r *Request) Answer(result interface{}) error {
	if r.done {
		return nil
	}
	r.done = true
	return r.answer(result)
}

// Done reports whether the request has already been answered.
func (r *Request) Done() bool {
	return r.done
}
