package upipe_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.dev/core"
)

func TestWrapErrorPreservesCauseAndCode(t *testing.T) {
	cause := errors.New("disk full")
	err := upipe.WrapError("umem.Alloc", upipe.CodeAllocation, cause)

	assert.True(t, upipe.IsCode(err, upipe.CodeAllocation))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "umem.Alloc")
}

func TestErrorIsMatchesOnCodeOnly(t *testing.T) {
	a := upipe.NewError("op-a", upipe.CodeBusy, "busy a")
	b := upipe.NewError("op-b", upipe.CodeBusy, "busy b")
	assert.True(t, errors.Is(a, b))

	c := upipe.NewError("op-c", upipe.CodeInvalid, "invalid")
	assert.False(t, errors.Is(a, c))
}
