package helper

import "upipe.dev/core"

// URefStream accumulates a sequence of block-ubuf urefs into one
// logical byte stream, for pipes that need to resynchronize framing
// across arbitrary input chunk boundaries (e.g. a demuxer fed
// variable-size reads). Append concatenates without copying by calling
// BlockUbuf.Append; Extract returns a copy of a fixed number of bytes
// off the front and narrows the stream past them without reallocating.
//
// Grounded on hztools-go-sdr's copy.go, which copies between
// Reader/Writer pairs through an intermediate buffer; URefStream
// applies the same "accumulate, then drain in fixed-size chunks" shape
// at the uref/ubuf level instead of through an io.Reader loop.
type URefStream struct {
	mgr  upipe.UMemManager
	head *upipe.BlockUbuf
}

// NewURefStream creates an empty stream that allocates its merge
// buffers from mgr.
func NewURefStream(mgr upipe.UMemManager) *URefStream {
	return &URefStream{mgr: mgr}
}

// Append adds ref's block payload to the end of the accumulated stream.
// ref is consumed: its ubuf ownership transfers into the stream and the
// uref envelope itself should not be reused by the caller.
func (s *URefStream) Append(ref *upipe.URef) error {
	buf, ok := ref.Ubuf().(*upipe.BlockUbuf)
	if !ok {
		return upipe.NewError("urefstream.Append", upipe.CodeInvalid, "not a block ubuf")
	}
	if s.head == nil {
		s.head = buf
		return nil
	}
	s.head.Append(buf)
	buf.Release()
	return nil
}

// Len returns the number of bytes currently accumulated.
func (s *URefStream) Len() int {
	if s.head == nil {
		return 0
	}
	return s.head.Size()
}

// Extract removes and returns the first n bytes of the accumulated
// stream as a newly allocated copy, narrowing the
// remaining stream in place via BlockUbuf.Resize. Returns an error if
// fewer than n bytes are currently available.
func (s *URefStream) Extract(n int) ([]byte, error) {
	if s.head == nil || s.head.Size() < n {
		return nil, upipe.NewError("urefstream.Extract", upipe.CodeInvalid, "not enough data buffered")
	}
	out, err := s.head.MapRead(0, n)
	if err != nil {
		return nil, err
	}
	cp := append([]byte(nil), out...)
	if err := s.head.Resize(n, s.head.Size()-n); err != nil {
		return nil, err
	}
	return cp, nil
}
