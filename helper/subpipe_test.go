package helper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.dev/core"
	"upipe.dev/core/helper"
)

// stubPipe is the minimal upipe.Pipe a super/sub test needs: a Base whose
// onFree callback lets a test count how often it was freed.
type stubPipe struct {
	upipe.Base
}

func newStubPipe(onFree func()) *stubPipe {
	p := &stubPipe{}
	p.Base = upipe.NewBase(nil, nil, onFree)
	return p
}

func (p *stubPipe) Input(ref *upipe.URef, pump interface{}) error { ref.Free(); return nil }
func (p *stubPipe) Control(cmd upipe.Command, args ...interface{}) error { return nil }

func TestSubHoldsNoStrongReferenceOnSuper(t *testing.T) {
	superFreed := 0
	super := newStubPipe(func() { superFreed++ })

	sub := helper.NewSub(super)
	assert.Same(t, super, sub.GetSuper())

	// Releasing every external reference to super must free it even
	// while a subpipe's weak back-reference is still live: NewSub must
	// not have taken a strong reference of its own.
	super.Release()
	assert.Equal(t, 1, superFreed, "super must free once its own external refs reach zero, regardless of any subpipe's weak back-reference")

	sub.Clear()
	assert.Nil(t, sub.GetSuper())
}

func TestSuperAddTakesStrongReferenceOnSub(t *testing.T) {
	subFreed := 0
	sub := newStubPipe(func() { subFreed++ })

	super := helper.NewSuper()
	super.Add(sub)
	require.Equal(t, 1, super.Len())

	// Releasing the caller's own external reference must not free the
	// subpipe while Super still holds its reference.
	sub.Release()
	assert.Equal(t, 0, subFreed)

	super.Remove(sub)
	assert.Equal(t, 0, super.Len())
	assert.Equal(t, 1, subFreed, "removing from Super drops the strong reference Add took, freeing the subpipe")
}

func TestSuperIterateStopsEarly(t *testing.T) {
	super := helper.NewSuper()
	a := newStubPipe(nil)
	b := newStubPipe(nil)
	super.Add(a)
	super.Add(b)

	var seen []upipe.Pipe
	super.Iterate(func(p upipe.Pipe) bool {
		seen = append(seen, p)
		return false
	})
	assert.Len(t, seen, 1)

	super.Remove(a)
	super.Remove(b)
}
