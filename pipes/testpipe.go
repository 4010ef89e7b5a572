package pipes

import (
	"sync"

	"upipe.dev/core"
)

// TestConfig configures a TestPipe's behavior via callbacks, the same
// "configuration by optional function fields" shape as mock.Config's
// Rx/Tx hooks, applied to the upipe.Pipe contract instead of
// sdr.Transceiver: a test supplies only the hooks it cares about and
// every other operation falls back to a harmless default.
//
// Grounded on hztools-go-sdr's mock/mock.go (Config, mockSdr,
// ThisRx/ThisTx).
type TestConfig struct {
	// OnInput, if set, is called for every uref the pipe receives
	// instead of the default (which frees ref and returns nil).
	OnInput func(ref *upipe.URef, pump interface{}) error

	// OnControl, if set, is called for every control command instead of
	// the default (which returns nil). The command is recorded in both
	// cases.
	OnControl func(cmd upipe.Command, args ...interface{}) error
}

// TestPipe is a configurable Pipe used by this module's own test suite
// to stand in for a real pipe on either side of a contract under test.
type TestPipe struct {
	upipe.Base
	cfg TestConfig

	mu       sync.Mutex
	inputs   []*upipe.URef
	controls []upipe.Command
}

// NewTestPipe creates a TestPipe configured by cfg.
func NewTestPipe(probe upipe.Probe, cfg TestConfig) *TestPipe {
	p := &TestPipe{cfg: cfg}
	p.Base = upipe.NewBase(probe, nil, nil)
	return p
}

// Input implements upipe.Pipe.
func (p *TestPipe) Input(ref *upipe.URef, pump interface{}) error {
	p.mu.Lock()
	p.inputs = append(p.inputs, ref)
	p.mu.Unlock()
	if p.cfg.OnInput != nil {
		return p.cfg.OnInput(ref, pump)
	}
	ref.Free()
	return nil
}

// Control implements upipe.Pipe.
func (p *TestPipe) Control(cmd upipe.Command, args ...interface{}) error {
	p.mu.Lock()
	p.controls = append(p.controls, cmd)
	p.mu.Unlock()
	if p.cfg.OnControl != nil {
		return p.cfg.OnControl(cmd, args...)
	}
	return nil
}

// Received returns every uref recorded by Input, in arrival order. Note
// that if OnInput forwards or frees a uref, reading its fields here
// after the fact is a use-after-free; tests should copy what they need
// inside OnInput itself, or rely on RecordSink instead.
func (p *TestPipe) Received() []*upipe.URef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*upipe.URef(nil), p.inputs...)
}

// ControlsSeen returns every command recorded by Control, in arrival
// order.
func (p *TestPipe) ControlsSeen() []upipe.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]upipe.Command(nil), p.controls...)
}
