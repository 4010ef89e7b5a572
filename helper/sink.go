package helper

import "upipe.dev/core"

// Writer is the narrow contract a Sink helper drives: a non-blocking write
// of one uref's worth of data, returning ErrWouldBlock if it could not
// be completed without blocking.
type Writer interface {
	WriteURef(ref *upipe.URef) error
}

// ErrWouldBlock is returned by a Writer that cannot currently accept
// more data (e.g. an OS socket buffer is full).
var ErrWouldBlock = upipe.NewError("helper.Sink", upipe.CodeBusy, "write would block")

// Sink wraps an Input helper with the "terminal pipe" policy: urefs
// that can't be written immediately are queued, same as any other
// pipe's input, but a Sink has no downstream Output to forward to -
// writes go to an external Writer (a file, a socket, a test recorder)
// instead.
type Sink struct {
	in *Input
	w  Writer
}

// NewSink creates a Sink helper writing to w, queuing up to capacity
// urefs when w reports ErrWouldBlock.
func NewSink(capacity int, w Writer) *Sink {
	s := &Sink{w: w}
	s.in = NewInput(capacity, s.write)
	return s
}

func (s *Sink) write(ref *upipe.URef) error {
	err := s.w.WriteURef(ref)
	if err == nil {
		ref.Free()
	}
	return err
}

// Push forwards ref to the sink's Input helper.
func (s *Sink) Push(ref *upipe.URef) error {
	return s.in.Push(ref)
}

// Input exposes the underlying Input helper for WhenReady / Len /
// Flush / SetBlocking.
func (s *Sink) Input() *Input {
	return s.in
}
