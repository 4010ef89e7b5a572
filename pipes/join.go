package pipes

import (
	"upipe.dev/core"
	"upipe.dev/core/helper"
)

// Join is a merge pipe: it exposes one upipe.Pipe-shaped Input per
// registered upstream slot (via InputFor), and forwards every uref it
// receives, from whichever slot, to its single Output in arrival order.
//
// Grounded on hztools-go-sdr's reader.go (multiReader/MultiReader),
// which concatenates N Readers into one in declared order, advancing to
// the next only on EOF; Join keeps the "many sources become one
// sequence" shape but merges by arrival order rather than exhaustion
// order, since upipe urefs arrive in push mode rather than being pulled
// slot by slot.
type Join struct {
	upipe.Base
	out  *helper.Output
	defs *helper.FlowDef
}

// NewJoin creates a Join pipe with no upstream slots yet; call InputFor
// once per upstream to obtain the Pipe each one should be wired to.
func NewJoin(probe upipe.Probe) *Join {
	j := &Join{out: helper.NewOutput(), defs: helper.NewFlowDef(nil)}
	j.Base = upipe.NewBase(probe, func() { j.out.Close() }, nil)
	return j
}

// SetOutput attaches the pipe downstream of the merge.
func (j *Join) SetOutput(out upipe.Pipe) {
	j.out.SetOutput(out)
}

// InputFor returns a Pipe representing one upstream slot: its Input
// method forwards directly into the Join's single Output, tagged with
// the Join's cached flow definition policy.
func (j *Join) InputFor(slot int) upipe.Pipe {
	return &joinSlot{join: j, slot: slot}
}

// Control implements upipe.Pipe.
func (j *Join) Control(cmd upipe.Command, args ...interface{}) error {
	switch cmd {
	case upipe.CommandSetOutput:
		if len(args) == 1 {
			if out, ok := args[0].(upipe.Pipe); ok {
				j.SetOutput(out)
				return nil
			}
		}
		return upipe.NewError("pipes.Join.Control", upipe.CodeInvalid, "set-output expects one Pipe argument")
	case upipe.CommandSetFlowDef:
		if len(args) == 1 {
			if def, ok := args[0].(string); ok {
				j.out.SetFlowDef(def)
				return j.defs.Set(def)
			}
		}
		return upipe.NewError("pipes.Join.Control", upipe.CodeInvalid, "set-flow-def expects one string argument")
	default:
		return nil
	}
}

// Input implements upipe.Pipe directly on the Join itself as slot 0,
// for the common two-input case where a caller doesn't need InputFor.
func (j *Join) Input(ref *upipe.URef, pump interface{}) error {
	return j.out.Send(ref, pump)
}

type joinSlot struct {
	join *Join
	slot int
}

func (s *joinSlot) Input(ref *upipe.URef, pump interface{}) error {
	return s.join.out.Send(ref, pump)
}

func (s *joinSlot) Control(cmd upipe.Command, args ...interface{}) error {
	return s.join.Control(cmd, args...)
}

func (s *joinSlot) Use()     { s.join.Use() }
func (s *joinSlot) Release() { s.join.Release() }
