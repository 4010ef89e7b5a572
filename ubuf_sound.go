package upipe

// SoundUbuf is a sound Ubuf: a fixed number of samples, one umem-backed
// channel plane per audio channel (planar layout). Interleaved formats
// are represented as a single-plane SoundUbuf whose SampleSize already
// accounts for every channel.
type SoundUbuf struct {
	ubufBase
	mgr        UMemManager
	samples    int
	sampleSize int
	planes     []soundPlane
}

// soundPlane is a per-handle view (offset, length) onto a channel's
// umem, mirroring BlockUbuf's segments: Resize narrows the view without
// touching the shared umem, so handles produced by Dup never observe
// each other's resizes.
type soundPlane struct {
	mem    *UMem
	offset int
	length int
}

// NewSoundUbuf allocates one plane per channel, each large enough for
// samples frames of sampleSize bytes.
func NewSoundUbuf(mgr UMemManager, samples, sampleSize, channels int) (*SoundUbuf, error) {
	s := &SoundUbuf{mgr: mgr, samples: samples, sampleSize: sampleSize}
	s.planes = make([]soundPlane, channels)
	length := samples * sampleSize
	for i := 0; i < channels; i++ {
		mem, err := mgr.Alloc(length)
		if err != nil {
			for j := 0; j < i; j++ {
				s.planes[j].mem.Release()
			}
			return nil, err
		}
		s.planes[i] = soundPlane{mem: mem, offset: 0, length: length}
	}
	mgr.Use()
	s.ubufBase = newUbufBase(func() {
		for _, p := range s.planes {
			p.mem.Release()
		}
		mgr.Release()
	})
	return s, nil
}

// Samples returns the number of sample frames.
func (s *SoundUbuf) Samples() int {
	return s.samples
}

// Channels returns the number of channel planes.
func (s *SoundUbuf) Channels() int {
	return len(s.planes)
}

// MapChannelRead returns a read-only view of one channel plane's bytes,
// within this handle's current (offset, length) window.
func (s *SoundUbuf) MapChannelRead(channel int) ([]byte, error) {
	if channel < 0 || channel >= len(s.planes) {
		return nil, NewError("ubuf.MapChannelRead", CodeInvalid, "channel out of range")
	}
	p := s.planes[channel]
	return p.mem.Bytes()[p.offset : p.offset+p.length], nil
}

// MapChannelWrite returns a mutable view of one channel plane's bytes.
// Fails with CodeBusy if the channel's umem is shared with another ubuf
// handle (e.g. produced by Dup).
func (s *SoundUbuf) MapChannelWrite(channel int) ([]byte, error) {
	if channel < 0 || channel >= len(s.planes) {
		return nil, NewError("ubuf.MapChannelWrite", CodeInvalid, "channel out of range")
	}
	p := s.planes[channel]
	if !p.mem.Single() {
		return nil, NewError("ubuf.MapChannelWrite", CodeBusy, "payload is shared with another ubuf")
	}
	return p.mem.Bytes()[p.offset : p.offset+p.length], nil
}

// Resize narrows the sample window to [skip, skip+newSamples). It only
// adjusts this handle's own per-plane (offset, length) view, never the
// underlying umem, so a Dup'd sibling sharing the same umem keeps its
// own window untouched.
func (s *SoundUbuf) Resize(skip, newSamples int) error {
	if skip < 0 || newSamples < 0 || skip+newSamples > s.samples {
		return NewError("ubuf.Resize", CodeInvalid, "resize out of bounds")
	}
	byteSkip := skip * s.sampleSize
	byteLen := newSamples * s.sampleSize
	for i, p := range s.planes {
		s.planes[i] = soundPlane{mem: p.mem, offset: p.offset + byteSkip, length: byteLen}
	}
	s.samples = newSamples
	return nil
}

// Dup returns a new SoundUbuf handle sharing the same channel planes'
// underlying umems, with its own independent (offset, length) view onto
// each.
func (s *SoundUbuf) Dup() (Ubuf, error) {
	planes := make([]soundPlane, len(s.planes))
	for i, p := range s.planes {
		p.mem.Use()
		planes[i] = p
	}
	s.mgr.Use()
	dup := &SoundUbuf{mgr: s.mgr, samples: s.samples, sampleSize: s.sampleSize, planes: planes}
	dup.ubufBase = newUbufBase(func() {
		for _, p := range dup.planes {
			p.mem.Release()
		}
		dup.mgr.Release()
	})
	return dup, nil
}
