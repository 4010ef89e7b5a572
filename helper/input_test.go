package helper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.dev/core"
	"upipe.dev/core/helper"
)

// fakeSink accepts up to accept urefs then reports busy for every
// subsequent one, recording everything it actually accepted.
type fakeSink struct {
	accept   int
	accepted []*upipe.URef
}

func (f *fakeSink) process(ref *upipe.URef) error {
	if len(f.accepted) >= f.accept {
		return helper.ErrWouldBlock
	}
	f.accepted = append(f.accepted, ref)
	return nil
}

func TestInputBackpressureQueuesWithoutDroppingRefs(t *testing.T) {
	sink := &fakeSink{accept: 2}
	in := helper.NewInput(10, sink.process)

	refs := make([]*upipe.URef, 5)
	for i := range refs {
		refs[i] = upipe.NewURef()
		require.NoError(t, in.Push(refs[i]))
	}

	assert.Len(t, sink.accepted, 2, "only the sink's declared capacity should have been processed")
	assert.Equal(t, 3, in.Len(), "the remaining three urefs must be queued, not dropped")

	// Raise the sink's capacity (simulating it becoming writable again)
	// and push one more uref: this should drain the backlog.
	sink.accept = 6
	require.NoError(t, in.Push(upipe.NewURef()))
	assert.Equal(t, 0, in.Len(), "once the sink is writable again, the backlog drains")
	assert.Len(t, sink.accepted, 6)

	in.Flush()
}

func TestInputPushSynchronousFastPath(t *testing.T) {
	sink := &fakeSink{accept: 100}
	in := helper.NewInput(4, sink.process)

	ref := upipe.NewURef()
	require.NoError(t, in.Push(ref))
	assert.Equal(t, 0, in.Len(), "an empty queue with a ready sink never enqueues at all")
	assert.Len(t, sink.accepted, 1)
}

func TestInputOverrunOnceCapacityExceeded(t *testing.T) {
	sink := &fakeSink{accept: 0}
	in := helper.NewInput(2, sink.process)

	require.NoError(t, in.Push(upipe.NewURef()))
	require.NoError(t, in.Push(upipe.NewURef()))
	err := in.Push(upipe.NewURef())
	assert.ErrorIs(t, err, helper.ErrBufferOverrun)

	in.Flush()
}
