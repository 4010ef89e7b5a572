package upipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.dev/core"
)

func TestSoundUbufResizeDoesNotAffectDup(t *testing.T) {
	mgr := upipe.NewMallocManager()
	s, err := upipe.NewSoundUbuf(mgr, 4, 1, 1)
	require.NoError(t, err)

	w, err := s.MapChannelWrite(0)
	require.NoError(t, err)
	copy(w, []byte{10, 20, 30, 40})

	dupAny, err := s.Dup()
	require.NoError(t, err)
	dup := dupAny.(*upipe.SoundUbuf)

	require.NoError(t, s.Resize(1, 2))
	assert.Equal(t, 2, s.Samples())

	r, err := s.MapChannelRead(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{20, 30}, r)

	// dup was never resized and must still see the full, unshifted range.
	assert.Equal(t, 4, dup.Samples())
	rd, err := dup.MapChannelRead(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 40}, rd, "resizing one handle must not narrow or shift a sibling's view")

	s.Release()
	dup.Release()
}

func TestSoundUbufMapChannelWriteBusyWhenShared(t *testing.T) {
	mgr := upipe.NewMallocManager()
	s, err := upipe.NewSoundUbuf(mgr, 2, 1, 1)
	require.NoError(t, err)

	dupAny, err := s.Dup()
	require.NoError(t, err)
	dup := dupAny.(*upipe.SoundUbuf)

	_, err = s.MapChannelWrite(0)
	assert.True(t, upipe.IsCode(err, upipe.CodeBusy))

	dup.Release()
	_, err = s.MapChannelWrite(0)
	assert.NoError(t, err)

	s.Release()
}
