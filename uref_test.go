package upipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.dev/core"
)

func TestURefDupSharesAttrsCOWAndDupsPayload(t *testing.T) {
	mgr := upipe.NewMallocManager()
	buf, err := upipe.NewBlockUbuf(mgr, 2)
	require.NoError(t, err)

	ref := upipe.NewURef()
	ref.SetFlowDef("block.a.")
	ref.SetUbuf(buf)

	dup, err := ref.Dup()
	require.NoError(t, err)

	def, ok := dup.FlowDef()
	assert.True(t, ok)
	assert.Equal(t, "block.a.", def)

	// Mutating the dup's attributes must not leak into the original
	// (copy-on-write UDict).
	dup.SetFlowDef("block.b.")
	orig, ok := ref.FlowDef()
	assert.True(t, ok)
	assert.Equal(t, "block.a.", orig)

	ref.Free()
	dup.Free()
}

func TestURefIsFlowDef(t *testing.T) {
	ref := upipe.NewURef()
	ref.SetFlowDef("block.a.")
	assert.True(t, ref.IsFlowDef())

	mgr := upipe.NewMallocManager()
	buf, err := upipe.NewBlockUbuf(mgr, 1)
	require.NoError(t, err)
	ref.SetUbuf(buf)
	assert.False(t, ref.IsFlowDef())

	ref.Free()
}
