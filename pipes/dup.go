// Package pipes contains concrete leaf pipe implementations built on
// the upipe/helper mix-ins: a fork (dup) pipe, a join (merge) pipe, a
// minimal source/sink pair, and a configurable test pipe used by this
// module's own test suite.
package pipes

import (
	"sync"

	"upipe.dev/core"
)

// Dup is a fork pipe: every uref it receives is duplicated (via
// URef.Dup, which shares the payload's storage copy-on-write) and sent
// to every attached output.
//
// Grounded on hztools-go-sdr's writer.go (MultiWriter), which tees one
// Write call to N underlying Writers; Dup applies the same fan-out
// shape to urefs, using URef.Dup instead of a byte copy so sharing N
// downstream pipes costs N refcount bumps, not N payload copies.
type Dup struct {
	upipe.Base
	mu      sync.Mutex
	outputs []upipe.Pipe
}

// NewDup creates a Dup pipe with no outputs attached yet.
func NewDup(probe upipe.Probe) *Dup {
	d := &Dup{}
	d.Base = upipe.NewBase(probe, nil, func() {
		d.mu.Lock()
		for _, o := range d.outputs {
			o.Release()
		}
		d.outputs = nil
		d.mu.Unlock()
	})
	return d
}

// AddOutput attaches another output, taking an external reference.
func (d *Dup) AddOutput(out upipe.Pipe) {
	out.Use()
	d.mu.Lock()
	d.outputs = append(d.outputs, out)
	d.mu.Unlock()
}

// RemoveOutput detaches a previously attached output, releasing the
// reference AddOutput took.
func (d *Dup) RemoveOutput(out upipe.Pipe) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, o := range d.outputs {
		if o == out {
			d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)
			o.Release()
			return
		}
	}
}

// Input implements upipe.Pipe: ref is duplicated once per output except
// the last, and the original forwarded to the last output, so a Dup
// with exactly one output never pays a duplication cost.
func (d *Dup) Input(ref *upipe.URef, pump interface{}) error {
	d.mu.Lock()
	outputs := append([]upipe.Pipe(nil), d.outputs...)
	d.mu.Unlock()

	if len(outputs) == 0 {
		ref.Free()
		return nil
	}
	for _, out := range outputs[:len(outputs)-1] {
		dup, err := ref.Dup()
		if err != nil {
			return err
		}
		if err := out.Input(dup, pump); err != nil {
			return err
		}
	}
	return outputs[len(outputs)-1].Input(ref, pump)
}

// Control implements upipe.Pipe. CommandSetOutput adds an output
// (matching the single-output convention every other helper-based pipe
// follows); use AddOutput/RemoveOutput directly to manage more than
// one.
func (d *Dup) Control(cmd upipe.Command, args ...interface{}) error {
	switch cmd {
	case upipe.CommandSetOutput:
		if len(args) != 1 {
			return upipe.NewError("pipes.Dup.Control", upipe.CodeInvalid, "set-output expects one argument")
		}
		out, ok := args[0].(upipe.Pipe)
		if !ok {
			return upipe.NewError("pipes.Dup.Control", upipe.CodeInvalid, "set-output argument is not a Pipe")
		}
		d.AddOutput(out)
		return nil
	default:
		return nil
	}
}
