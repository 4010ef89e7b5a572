package pipes

import (
	"sync"

	"upipe.dev/core"
	"upipe.dev/core/helper"
)

// RecordSink is a terminal pipe that records every payload uref's bytes
// (for block ubufs) and flow-definition changes it receives, intended
// for use in tests asserting on what actually reached the end of a
// pipeline.
type RecordSink struct {
	upipe.Base
	sink *helper.Sink

	mu       sync.Mutex
	flowDefs []string
	frames   [][]byte
}

// NewRecordSink creates a RecordSink with the given input queue
// capacity.
func NewRecordSink(probe upipe.Probe, capacity int) *RecordSink {
	s := &RecordSink{}
	s.sink = helper.NewSink(capacity, s)
	s.Base = upipe.NewBase(probe, nil, func() { s.sink.Input().Flush() })
	return s
}

// WriteURef implements helper.Writer.
func (s *RecordSink) WriteURef(ref *upipe.URef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if def, ok := ref.FlowDef(); ok {
		s.flowDefs = append(s.flowDefs, def)
	}
	if block, ok := ref.Ubuf().(*upipe.BlockUbuf); ok {
		b, err := block.MapRead(0, block.Size())
		if err != nil {
			return err
		}
		s.frames = append(s.frames, append([]byte(nil), b...))
	}
	return nil
}

// Frames returns every block payload recorded so far, in arrival order.
func (s *RecordSink) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.frames...)
}

// FlowDefs returns every flow definition announced so far, in arrival
// order.
func (s *RecordSink) FlowDefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.flowDefs...)
}

// Input implements upipe.Pipe.
func (s *RecordSink) Input(ref *upipe.URef, pump interface{}) error {
	return s.sink.Push(ref)
}

// Control implements upipe.Pipe. RecordSink has no control surface of
// its own beyond the standard flow-def/URI no-ops.
func (s *RecordSink) Control(cmd upipe.Command, args ...interface{}) error {
	return nil
}
