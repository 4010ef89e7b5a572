package xfer

import (
	"upipe.dev/core"
)

// SinkProxy is installed on the origin pump: its Input method is called
// like any other downstream pipe, but instead of processing the uref
// itself it hands it to a Queue bound for a SourceProxy running on the
// destination pump.
type SinkProxy struct {
	upipe.Base
	sink *WorkerSink
}

// NewSinkProxy creates a SinkProxy writing into q.
func NewSinkProxy(probe upipe.Probe, q *Queue) *SinkProxy {
	p := &SinkProxy{sink: NewWorkerSink(q)}
	p.Base = upipe.NewBase(probe, nil, nil)
	return p
}

// Input implements upipe.Pipe by forwarding ref across the transfer
// queue.
func (p *SinkProxy) Input(ref *upipe.URef, pump interface{}) error {
	return p.sink.Push(ref)
}

// Control implements upipe.Pipe. A SinkProxy has no local state to
// control; every command is a no-op that returns nil, matching a pure
// forwarding pipe.
func (p *SinkProxy) Control(cmd upipe.Command, args ...interface{}) error {
	return nil
}

// SourceProxy is installed on the destination pump: a pump.Pump (an
// idler, typically) calls Pump repeatedly to drain the paired Queue and
// forward each uref into out, reproducing on the destination pump
// exactly the Input calls the SinkProxy received on the origin pump.
type SourceProxy struct {
	source *WorkerSource
	out    upipe.Pipe
	probe  upipe.Probe
}

// NewSourceProxy creates a SourceProxy draining q into out.
func NewSourceProxy(q *Queue, out upipe.Pipe, probe upipe.Probe) *SourceProxy {
	out.Use()
	return &SourceProxy{source: NewWorkerSource(q), out: out, probe: probe}
}

// Pump drains at most one uref from the transfer queue without
// blocking the caller's pump if none is ready; it is meant to be called
// from a pump.Pump idler or fd-watcher callback, not directly from
// application code.
func (s *SourceProxy) Pump() error {
	ref, err := s.source.TryPop()
	if err == ErrWouldBlock {
		return nil
	}
	if err != nil {
		return err
	}
	return s.out.Input(ref, nil)
}

// Close releases the SourceProxy's reference to its output pipe.
func (s *SourceProxy) Close() {
	if s.out != nil {
		s.out.Release()
		s.out = nil
	}
}
