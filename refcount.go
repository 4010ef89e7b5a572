package upipe

import "sync/atomic"

// Refcount is an atomic reference count paired with a release callback.
// Use increments the count; Release decrements it and, on reaching zero,
// invokes the callback exactly once. Refcount operations are infallible:
// misuse (a Release past zero) is a programming error that is not
// detected, though the callback still runs at most once.
type Refcount struct {
	n       int64
	free    func()
	freed   int32
}

// NewRefcount creates a Refcount starting at one live reference, which
// will invoke free when the last Release brings the count to zero. free
// may be nil for refcounts that exist purely to gate a "single" check.
func NewRefcount(free func()) *Refcount {
	return &Refcount{n: 1, free: free}
}

// Use increments the reference count.
func (r *Refcount) Use() {
	atomic.AddInt64(&r.n, 1)
}

// Release decrements the reference count. When it reaches zero, the
// Refcount's free callback is invoked exactly once.
func (r *Refcount) Release() {
	if atomic.AddInt64(&r.n, -1) == 0 {
		if atomic.CompareAndSwapInt32(&r.freed, 0, 1) && r.free != nil {
			r.free()
		}
	}
}

// Single reports whether the caller holds the only live reference. This
// is the only point at which it is safe to mutate a shared structure
// (such as a ubuf's payload) in place rather than copying it.
func (r *Refcount) Single() bool {
	return atomic.LoadInt64(&r.n) == 1
}

// Count returns the current reference count. Intended for tests and
// debug introspection; code should not branch production logic on the
// exact count beyond the Single() check.
func (r *Refcount) Count() int64 {
	return atomic.LoadInt64(&r.n)
}

// TwoPhase models the external/"real" two-level refcount described for
// pipes: external references (held by application code and sibling
// pipes) drop first, which may trigger a no-input notification so
// subpipes can detach; internal self-references (held by the pipe's own
// in-flight work, such as a queued uref) drop last and trigger the final
// free.
//
// The split exists so a subpipe can outlive its super's external
// visibility: once the super has no external references left it throws
// its lifecycle notification, but the underlying allocation is not freed
// until every internal (real) reference - such as one held while a uref
// is still queued - has also gone.
type TwoPhase struct {
	external *Refcount
	internal *Refcount

	onNoInput func()
	onFree    func()
}

// NewTwoPhase creates a TwoPhase refcount. onNoInput fires once, when the
// external count reaches zero. onFree fires once, when the internal
// count reaches zero (which can only happen after onNoInput has fired,
// since the internal refcount is seeded by a single reference that the
// external phase releases into it).
func NewTwoPhase(onNoInput, onFree func()) *TwoPhase {
	tp := &TwoPhase{onNoInput: onNoInput, onFree: onFree}
	tp.internal = &Refcount{n: 1, free: onFree}
	tp.external = &Refcount{n: 1, free: func() {
		if onNoInput != nil {
			onNoInput()
		}
		tp.internal.Release()
	}}
	return tp
}

// UseExternal adds an external (application-visible) reference.
func (tp *TwoPhase) UseExternal() { tp.external.Use() }

// ReleaseExternal drops an external reference. When the last one drops,
// onNoInput fires and the TwoPhase transitions to internal-only mode.
func (tp *TwoPhase) ReleaseExternal() { tp.external.Release() }

// UseInternal adds an internal (self-referential) reference, e.g. while
// a uref is queued inside the pipe and the pipe must not vanish before
// the queue drains.
func (tp *TwoPhase) UseInternal() { tp.internal.Use() }

// ReleaseInternal drops an internal reference. When the last one drops
// (which requires the external phase to have already completed), onFree
// fires.
func (tp *TwoPhase) ReleaseInternal() { tp.internal.Release() }

// SingleExternal reports whether the caller holds the only external
// reference.
func (tp *TwoPhase) SingleExternal() bool { return tp.external.Single() }
