package upipe

// PictureChroma describes one plane of a picture buffer: its
// subsampling relative to the luma plane and how many bytes one pixel
// occupies on that plane (e.g. 1 for 8-bit Y/U/V, 2 for 16-bit).
type PictureChroma struct {
	Name        string
	HSub, VSub  int
	PixelSize   int
}

type picturePlane struct {
	mem    *UMem
	stride int
}

// PictureUbuf is a multi-plane picture Ubuf: one umem-backed plane per
// PictureChroma, each with its own stride to allow for row padding.
type PictureUbuf struct {
	ubufBase
	mgr     UMemManager
	hsize   int
	vsize   int
	chromas []PictureChroma
	planes  []picturePlane
}

// NewPictureUbuf allocates one plane per chroma descriptor, sized for
// an hsize x vsize picture.
func NewPictureUbuf(mgr UMemManager, hsize, vsize int, chromas []PictureChroma) (*PictureUbuf, error) {
	p := &PictureUbuf{mgr: mgr, hsize: hsize, vsize: vsize, chromas: append([]PictureChroma(nil), chromas...)}
	p.planes = make([]picturePlane, len(chromas))
	for i, c := range chromas {
		stride := (hsize / maxInt(c.HSub, 1)) * c.PixelSize
		rows := vsize / maxInt(c.VSub, 1)
		mem, err := mgr.Alloc(stride * rows)
		if err != nil {
			for j := 0; j < i; j++ {
				p.planes[j].mem.Release()
			}
			return nil, err
		}
		p.planes[i] = picturePlane{mem: mem, stride: stride}
	}
	mgr.Use()
	p.ubufBase = newUbufBase(func() {
		for _, pl := range p.planes {
			pl.mem.Release()
		}
		mgr.Release()
	})
	return p, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PlaneIndex returns the index of the plane named name, or -1.
func (p *PictureUbuf) PlaneIndex(name string) int {
	for i, c := range p.chromas {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Size returns the picture's luma dimensions.
func (p *PictureUbuf) Size() (hsize, vsize int) {
	return p.hsize, p.vsize
}

// MapPlaneRead returns a read-only view of the given plane's bytes and
// its stride.
func (p *PictureUbuf) MapPlaneRead(planeIdx int) ([]byte, int, error) {
	if planeIdx < 0 || planeIdx >= len(p.planes) {
		return nil, 0, NewError("ubuf.MapPlaneRead", CodeInvalid, "plane out of range")
	}
	pl := p.planes[planeIdx]
	return pl.mem.Bytes(), pl.stride, nil
}

// MapPlaneWrite returns a mutable view of the given plane's bytes and
// its stride. Fails with CodeBusy if the plane's umem is shared with
// another ubuf handle (e.g. produced by Dup).
func (p *PictureUbuf) MapPlaneWrite(planeIdx int) ([]byte, int, error) {
	if planeIdx < 0 || planeIdx >= len(p.planes) {
		return nil, 0, NewError("ubuf.MapPlaneWrite", CodeInvalid, "plane out of range")
	}
	pl := p.planes[planeIdx]
	if !pl.mem.Single() {
		return nil, 0, NewError("ubuf.MapPlaneWrite", CodeBusy, "payload is shared with another ubuf")
	}
	return pl.mem.Bytes(), pl.stride, nil
}

// Dup returns a new PictureUbuf handle sharing the same plane storage.
func (p *PictureUbuf) Dup() (Ubuf, error) {
	planes := make([]picturePlane, len(p.planes))
	for i, pl := range p.planes {
		pl.mem.Use()
		planes[i] = pl
	}
	p.mgr.Use()
	dup := &PictureUbuf{
		mgr:     p.mgr,
		hsize:   p.hsize,
		vsize:   p.vsize,
		chromas: p.chromas,
		planes:  planes,
	}
	dup.ubufBase = newUbufBase(func() {
		for _, pl := range dup.planes {
			pl.mem.Release()
		}
		dup.mgr.Release()
	})
	return dup, nil
}
