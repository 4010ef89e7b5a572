package helper

import "upipe.dev/core"

// Bin composes a chain of inner pipes behind one external Pipe
// identity: external Input calls are forwarded to the first inner pipe,
// the last inner pipe's output is the bin's externally visible output,
// and Freeze/Thaw detach and reattach every inner pipe's shared
// managers around a manager swap (CommandBinFreeze / CommandBinThaw).
type Bin struct {
	inner []upipe.Pipe
}

// NewBin creates a Bin from an ordered chain of already-linked inner
// pipes (inner[i]'s output must already be set to inner[i+1]).
func NewBin(inner ...upipe.Pipe) *Bin {
	for _, p := range inner {
		p.Use()
	}
	return &Bin{inner: inner}
}

// FirstInner implements CommandBinGetFirstInner: the pipe that receives
// the bin's external input.
func (b *Bin) FirstInner() upipe.Pipe {
	if len(b.inner) == 0 {
		return nil
	}
	return b.inner[0]
}

// LastInner implements CommandBinGetLastInner: the pipe whose output is
// the bin's external output.
func (b *Bin) LastInner() upipe.Pipe {
	if len(b.inner) == 0 {
		return nil
	}
	return b.inner[len(b.inner)-1]
}

// Input forwards to the first inner pipe.
func (b *Bin) Input(ref *upipe.URef, pump interface{}) error {
	first := b.FirstInner()
	if first == nil {
		ref.Free()
		return nil
	}
	return first.Input(ref, pump)
}

// Freeze implements CommandBinFreeze: sends CommandBinFreeze to every
// inner pipe, in order, so each can detach from a pump manager ahead of
// a swap, and stops at the first error.
func (b *Bin) Freeze() error {
	for _, p := range b.inner {
		if err := p.Control(upipe.CommandBinFreeze); err != nil {
			return err
		}
	}
	return nil
}

// Thaw implements CommandBinThaw, the counterpart to Freeze.
func (b *Bin) Thaw() error {
	for _, p := range b.inner {
		if err := p.Control(upipe.CommandBinThaw); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Bin's references to every inner pipe.
func (b *Bin) Close() {
	for _, p := range b.inner {
		p.Release()
	}
	b.inner = nil
}
