package upipe

import "upipe.dev/core/internal/pool"

// UMem is an opaque handle to a block of raw bytes obtained from a
// UMemManager. A umem is itself refcounted so that buffers which share
// it keep the allocator-owned memory alive. It keeps a plain pointer to
// the manager that produced it but takes no reference on it; the Ubuf
// variants built on umems hold the manager reference instead.
type UMem struct {
	rc     *Refcount
	bytes  []byte
	mgr    UMemManager
}

// Bytes returns the raw backing storage. Callers that mutate it must
// first establish exclusivity (see Ubuf.MapWrite); UMem itself does not
// enforce that - it is the storage primitive Ubuf is built on.
func (m *UMem) Bytes() []byte {
	return m.bytes
}

// Use adds a reference to the umem, keeping its backing bytes alive.
func (m *UMem) Use() {
	m.rc.Use()
}

// Release drops a reference. When the last reference drops, the umem is
// returned to its manager's pool (or freed, for a manager with no pool).
func (m *UMem) Release() {
	m.rc.Release()
}

// Single reports whether this is the only live reference to the umem,
// the precondition for writing to it in place.
func (m *UMem) Single() bool {
	return m.rc.Single()
}

// UMemManager allocates and recycles UMem regions. Managers are
// themselves refcounted: each Ubuf variant takes a reference on the
// manager it allocates from and drops it when the ubuf is freed, so an
// allocator is not torn down while buffers drawn from it are still
// outstanding.
type UMemManager interface {
	// Alloc returns a new UMem of at least size bytes.
	Alloc(size int) (*UMem, error)

	// Use adds a reference to the manager.
	Use()

	// Release drops a reference to the manager.
	Release()
}

// mallocManager is the simplest UMemManager: every Alloc is a fresh
// make([]byte, size), and every Release simply drops the slice for the
// GC to collect. Grounded on the teacher's SamplesPool, generalized from
// a single fixed-size sync.Pool to a manager that allocates arbitrary
// sizes with no reuse - the baseline every other manager is measured
// against.
type mallocManager struct {
	rc *Refcount
}

// NewMallocManager creates a UMemManager with no pooling: every umem is
// a fresh allocation, released back to the GC when its refcount hits
// zero. Useful as a default and as a correctness baseline in tests.
func NewMallocManager() UMemManager {
	m := &mallocManager{}
	m.rc = NewRefcount(func() {})
	return m
}

func (m *mallocManager) Alloc(size int) (*UMem, error) {
	if size < 0 {
		return nil, NewError("umem.Alloc", CodeInvalid, "negative size")
	}
	um := &UMem{bytes: make([]byte, size), mgr: m}
	um.rc = NewRefcount(func() {})
	return um, nil
}

func (m *mallocManager) Use()     { m.rc.Use() }
func (m *mallocManager) Release() { m.rc.Release() }

// poolManager is a pooling UMemManager backed by internal/pool's
// size-classed buffer ladder, avoiding allocator churn on the hot path
// by returning released umems to their bucket instead of freeing them.
type poolManager struct {
	rc *Refcount
	p  *pool.Pool
}

// NewPoolManager creates a pooling UMemManager with the given bucket
// ladder, which must be sorted ascending. An Alloc request larger than
// the largest bucket falls back to an unpooled allocation.
func NewPoolManager(buckets []int) UMemManager {
	pm := &poolManager{p: pool.New(buckets)}
	pm.rc = NewRefcount(func() {})
	return pm
}

func (pm *poolManager) Alloc(size int) (*UMem, error) {
	if size < 0 {
		return nil, NewError("umem.Alloc", CodeInvalid, "negative size")
	}
	buf, put := pm.p.Get(size)
	um := &UMem{bytes: buf, mgr: pm}
	um.rc = NewRefcount(put)
	return um, nil
}

func (pm *poolManager) Use()     { pm.rc.Use() }
func (pm *poolManager) Release() { pm.rc.Release() }

// DefaultPoolBuckets is the bucket ladder used when no explicit sizing
// is given: 4 sizes spanning a typical range of block-ubuf payloads.
var DefaultPoolBuckets = pool.DefaultBuckets
