package upipe

// BlockUbuf is a flat byte-range Ubuf: a view (offset, length) onto one
// or more umem segments. Most buffers only ever have a single segment;
// Append grows the chain instead of copying existing segments, the way
// splicing a byte stream together should not require recopying bytes
// already written.
type BlockUbuf struct {
	ubufBase
	mgr      UMemManager
	segments []blockSegment
	size     int
}

type blockSegment struct {
	mem    *UMem
	offset int
	length int
}

// NewBlockUbuf allocates a single-segment block buffer of size bytes
// from mgr.
func NewBlockUbuf(mgr UMemManager, size int) (*BlockUbuf, error) {
	mem, err := mgr.Alloc(size)
	if err != nil {
		return nil, err
	}
	mgr.Use()
	b := &BlockUbuf{
		mgr:      mgr,
		segments: []blockSegment{{mem: mem, offset: 0, length: size}},
		size:     size,
	}
	b.ubufBase = newUbufBase(func() {
		for _, s := range b.segments {
			s.mem.Release()
		}
		mgr.Release()
	})
	return b, nil
}

// Size returns the total number of bytes across all segments.
func (b *BlockUbuf) Size() int {
	return b.size
}

// MapRead returns a read-only view of [offset, offset+length). If the
// requested range spans more than one segment it is copied into a
// freshly allocated contiguous slice; callers should prefer ranges that
// stay within one segment when performance matters.
func (b *BlockUbuf) MapRead(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > b.size {
		return nil, NewError("ubuf.MapRead", CodeInvalid, "range out of bounds")
	}
	if seg, segOff, ok := b.singleSegment(offset, length); ok {
		return seg.mem.Bytes()[segOff : segOff+length], nil
	}
	out := make([]byte, length)
	b.copyRange(offset, out)
	return out, nil
}

// MapWrite returns a mutable view of [offset, offset+length). Fails
// with CodeBusy if the underlying segment's umem is shared with another
// ubuf handle (e.g. produced by Dup) - writing through one dup'd handle
// must never mutate bytes another handle can still read.
func (b *BlockUbuf) MapWrite(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > b.size {
		return nil, NewError("ubuf.MapWrite", CodeInvalid, "range out of bounds")
	}
	seg, segOff, ok := b.singleSegment(offset, length)
	if !ok {
		return nil, NewError("ubuf.MapWrite", CodeInvalid, "range spans multiple segments")
	}
	if !seg.mem.Single() {
		return nil, NewError("ubuf.MapWrite", CodeBusy, "payload is shared with another ubuf")
	}
	return seg.mem.Bytes()[segOff : segOff+length], nil
}

// Unmap is a no-op placeholder for parity with map-based APIs that need
// to flush or unlock a mapping; block ubufs map directly onto Go
// slices, so there is nothing to release here.
func (b *BlockUbuf) Unmap(offset, length int) {}

func (b *BlockUbuf) singleSegment(offset, length int) (blockSegment, int, bool) {
	pos := 0
	for _, seg := range b.segments {
		if offset >= pos && offset+length <= pos+seg.length {
			return seg, seg.offset + (offset - pos), true
		}
		pos += seg.length
	}
	return blockSegment{}, 0, false
}

func (b *BlockUbuf) copyRange(offset int, out []byte) {
	pos := 0
	remaining := out
	for _, seg := range b.segments {
		if len(remaining) == 0 {
			break
		}
		segEnd := pos + seg.length
		if offset < segEnd && offset+len(out) > pos {
			start := offset - pos
			if start < 0 {
				start = 0
			}
			avail := seg.length - start
			n := len(remaining)
			if n > avail {
				n = avail
			}
			copy(remaining[:n], seg.mem.Bytes()[seg.offset+start:seg.offset+start+n])
			remaining = remaining[n:]
		}
		pos = segEnd
	}
}

// Append adds another block ubuf's segments to the end of this one,
// growing the logical size without copying bytes. other is consumed:
// its segments are adopted by b, and other's own Release must still be
// called by the caller exactly once (Append takes an additional
// reference on each adopted umem rather than stealing other's).
func (b *BlockUbuf) Append(other *BlockUbuf) {
	for _, seg := range other.segments {
		seg.mem.Use()
		b.segments = append(b.segments, seg)
	}
	b.size += other.size
}

// Resize changes the logical window onto the underlying segments: a
// positive skip trims bytes from the front, a smaller newSize trims
// bytes from the end. Resize never reallocates; it only narrows or
// shifts the existing view.
func (b *BlockUbuf) Resize(skip, newSize int) error {
	if skip < 0 || newSize < 0 || skip+newSize > b.size {
		return NewError("ubuf.Resize", CodeInvalid, "resize out of bounds")
	}
	var out []blockSegment
	pos := 0
	remainingSkip := skip
	remainingSize := newSize
	for _, seg := range b.segments {
		segLen := seg.length
		if remainingSkip >= segLen {
			remainingSkip -= segLen
			pos += segLen
			continue
		}
		start := seg.offset + remainingSkip
		avail := segLen - remainingSkip
		remainingSkip = 0
		if remainingSize <= 0 {
			break
		}
		n := avail
		if n > remainingSize {
			n = remainingSize
		}
		out = append(out, blockSegment{mem: seg.mem, offset: start, length: n})
		remainingSize -= n
		pos += segLen
	}
	b.segments = out
	b.size = newSize
	return nil
}

// Dup returns a new BlockUbuf handle sharing the same segments; each
// adopted umem gets an additional reference so both handles can Release
// independently.
func (b *BlockUbuf) Dup() (Ubuf, error) {
	segs := make([]blockSegment, len(b.segments))
	for i, seg := range b.segments {
		seg.mem.Use()
		segs[i] = seg
	}
	b.mgr.Use()
	dup := &BlockUbuf{mgr: b.mgr, segments: segs, size: b.size}
	dup.ubufBase = newUbufBase(func() {
		for _, s := range dup.segments {
			s.mem.Release()
		}
		dup.mgr.Release()
	})
	return dup, nil
}
