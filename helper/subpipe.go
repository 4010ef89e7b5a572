package helper

import (
	"sync"

	"upipe.dev/core"
)

// Super tracks the set of subpipes belonging to one super-pipe (the
// "dataflow path to a subpipe's super" direction), backing
// CommandIterateSub.
type Super struct {
	mu   sync.Mutex
	subs []upipe.Pipe
}

// NewSuper creates an empty Super helper.
func NewSuper() *Super {
	return &Super{}
}

// Add registers a subpipe, taking an external reference to it.
func (s *Super) Add(sub upipe.Pipe) {
	sub.Use()
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// Remove deregisters a subpipe, releasing the reference Add took.
func (s *Super) Remove(sub upipe.Pipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.subs {
		if p == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.Release()
			return
		}
	}
}

// Iterate calls fn for each currently registered subpipe, stopping
// early if fn returns false. Implements the traversal backing
// CommandIterateSub.
func (s *Super) Iterate(fn func(upipe.Pipe) bool) {
	s.mu.Lock()
	subs := append([]upipe.Pipe(nil), s.subs...)
	s.mu.Unlock()
	for _, p := range subs {
		if !fn(p) {
			return
		}
	}
}

// Len returns the current number of registered subpipes.
func (s *Super) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Sub is the subpipe-side half of the relationship: a weak back-
// reference to the super-pipe, backing CommandSubGetSuper. It holds no
// reference on the super: Super.Add already takes a strong reference in
// the other direction, and a strong reference here too would form a
// cycle neither side can ever break (the super's external refcount
// could never reach zero while any subpipe is alive).
type Sub struct {
	super upipe.Pipe
}

// NewSub creates a Sub helper pointing at super. This does not take a
// reference; the subpipe's lifetime is independent of whether its
// super-pipe has already begun tearing down.
func NewSub(super upipe.Pipe) *Sub {
	return &Sub{super: super}
}

// GetSuper returns the subpipe's super-pipe, or nil once Clear has been
// called.
func (s *Sub) GetSuper() upipe.Pipe {
	return s.super
}

// Clear drops the weak reference to the super-pipe. A super-pipe's
// teardown path must call Clear on each of its subpipes' Sub helpers
// (e.g. while iterating Super before releasing each subpipe) so that no
// subpipe is left holding a pointer to a super that is being freed.
func (s *Sub) Clear() {
	s.super = nil
}
