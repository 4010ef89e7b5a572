package upipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.dev/core"
)

func TestRefcountFreeOnLastRelease(t *testing.T) {
	freed := 0
	rc := upipe.NewRefcount(func() { freed++ })
	assert.True(t, rc.Single())

	rc.Use()
	rc.Use()
	assert.False(t, rc.Single())
	assert.Equal(t, int64(3), rc.Count())

	rc.Release()
	rc.Release()
	assert.Equal(t, 0, freed)
	assert.True(t, rc.Single())

	rc.Release()
	assert.Equal(t, 1, freed)
}

func TestRefcountFreeCalledExactlyOnce(t *testing.T) {
	freed := 0
	rc := upipe.NewRefcount(func() { freed++ })
	rc.Release()
	assert.Equal(t, 1, freed)
}

func TestTwoPhaseExternalThenInternal(t *testing.T) {
	var noInput, free int
	tp := upipe.NewTwoPhase(func() { noInput++ }, func() { free++ })

	// The external phase releases the internal seed reference, so two
	// UseInternal calls leave two internal references to release below.
	tp.UseExternal()
	tp.UseInternal()
	tp.UseInternal()

	tp.ReleaseExternal()
	assert.Equal(t, 0, noInput)
	tp.ReleaseExternal()
	assert.Equal(t, 1, noInput, "onNoInput fires once the last external reference drops")
	assert.Equal(t, 0, free, "onFree must not fire while an internal reference is still outstanding")

	tp.ReleaseInternal()
	assert.Equal(t, 0, free)
	tp.ReleaseInternal()
	assert.Equal(t, 1, free, "onFree fires once the internal count, seeded by the external phase, reaches zero")
}

func TestTwoPhaseSingleExternal(t *testing.T) {
	tp := upipe.NewTwoPhase(nil, nil)
	assert.True(t, tp.SingleExternal())
	tp.UseExternal()
	assert.False(t, tp.SingleExternal())
}
