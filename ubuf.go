package upipe

// Ubuf is a polymorphic, reference-counted payload buffer. The base
// interface covers only lifecycle; the actual shape of the data (a flat
// byte range, a multi-plane picture, an interleaved or planar sound
// buffer) is exposed by the variant-specific types in ubuf_block.go,
// ubuf_picture.go and ubuf_sound.go, reached by a type assertion on the
// concrete Ubuf a pipe expects for its negotiated flow definition.
//
// A Ubuf never outlives the last Release of its refcount; Dup does not
// copy bytes, it creates a second handle onto shared, copy-on-write
// storage, so a caller must call MapWrite (or the variant-specific
// equivalent) before mutating a buffer it does not know to be Single.
type Ubuf interface {
	// Use adds a reference to the buffer.
	Use()
	// Release drops a reference; at zero, the buffer and the umem(s)
	// backing it are released to their managers.
	Release()
	// Single reports whether this is the only live reference, the
	// precondition for in-place mutation.
	Single() bool
	// Dup creates a new reference-counted handle sharing this buffer's
	// storage. Returns an error only if detaching a size-class manager
	// requires a fresh allocation that fails.
	Dup() (Ubuf, error)
}

// ubufBase factors out the refcount plumbing shared by every Ubuf
// variant, mirroring how UMem itself wraps a Refcount.
type ubufBase struct {
	rc *Refcount
}

func newUbufBase(free func()) ubufBase {
	return ubufBase{rc: NewRefcount(free)}
}

func (b ubufBase) Use()        { b.rc.Use() }
func (b ubufBase) Release()    { b.rc.Release() }
func (b ubufBase) Single() bool { return b.rc.Single() }
