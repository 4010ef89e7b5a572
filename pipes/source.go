package pipes

import (
	"upipe.dev/core"
	"upipe.dev/core/helper"
	"upipe.dev/core/pump"
)

// Source is a pipe with no upstream: a pump idler repeatedly calls a
// user-supplied generator function, and whatever uref it returns (if
// any) is sent to the attached output. Returning (nil, io.EOF) from the
// generator throws EventSourceEnd and stops the idler.
type Source struct {
	upipe.Base
	out    *helper.Output
	gen    func() (*upipe.URef, error)
	idler  pump.Pump
	mgr    pump.Manager
}

// NewSource creates a Source calling gen on every pump idle tick once
// Start is called.
func NewSource(probe upipe.Probe, gen func() (*upipe.URef, error)) *Source {
	s := &Source{out: helper.NewOutput(), gen: gen}
	s.Base = upipe.NewBase(probe, func() { s.Stop() }, nil)
	return s
}

// Start attaches the source to mgr's event loop.
func (s *Source) Start(mgr pump.Manager) error {
	s.mgr = mgr
	s.idler = mgr.NewIdler(s.tick)
	return s.idler.Start()
}

// Stop detaches the source's idler, if running.
func (s *Source) Stop() {
	if s.idler != nil {
		s.idler.Stop()
		s.idler = nil
	}
}

func (s *Source) tick() {
	ref, err := s.gen()
	if err != nil {
		s.Throw(s, upipe.EventSourceEnd)
		s.Stop()
		return
	}
	if ref == nil {
		return
	}
	if err := s.out.Send(ref, nil); err != nil {
		s.Throw(s, upipe.EventError, err)
	}
}

// SetOutput attaches the pipe downstream of the source.
func (s *Source) SetOutput(out upipe.Pipe) {
	s.out.SetOutput(out)
}

// SetFlowDef announces the flow definition the source is about to start
// producing.
func (s *Source) SetFlowDef(def string) {
	s.out.SetFlowDef(def)
}

// Input implements upipe.Pipe; a pure source rejects external input.
func (s *Source) Input(ref *upipe.URef, pump interface{}) error {
	ref.Free()
	return upipe.NewError("pipes.Source.Input", upipe.CodeInvalid, "source pipes do not accept input")
}

// Control implements upipe.Pipe.
func (s *Source) Control(cmd upipe.Command, args ...interface{}) error {
	switch cmd {
	case upipe.CommandSetOutput:
		if len(args) == 1 {
			if out, ok := args[0].(upipe.Pipe); ok {
				s.SetOutput(out)
				return nil
			}
		}
		return upipe.NewError("pipes.Source.Control", upipe.CodeInvalid, "set-output expects one Pipe argument")
	default:
		return nil
	}
}
