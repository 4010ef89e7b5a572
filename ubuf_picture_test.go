package upipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.dev/core"
)

func TestPictureUbufMapPlaneWriteBusyWhenShared(t *testing.T) {
	mgr := upipe.NewMallocManager()
	p, err := upipe.NewPictureUbuf(mgr, 4, 2, []upipe.PictureChroma{
		{Name: "y", HSub: 1, VSub: 1, PixelSize: 1},
	})
	require.NoError(t, err)

	dupAny, err := p.Dup()
	require.NoError(t, err)
	dup := dupAny.(*upipe.PictureUbuf)

	_, _, err = p.MapPlaneWrite(0)
	assert.True(t, upipe.IsCode(err, upipe.CodeBusy))

	dup.Release()
	_, _, err = p.MapPlaneWrite(0)
	assert.NoError(t, err)

	p.Release()
}
