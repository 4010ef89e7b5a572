package upipe

// Probe receives events thrown by a pipe. A probe chain is built by
// nesting probes: a probe that does not fully handle an event forwards
// it to the next probe in the chain by calling that next probe's Throw
// directly, which is why Throw takes the originating pipe rather than
// the chain maintaining its own notion of "current pipe".
//
// This mirrors the teacher's layered Reader/Writer wrapping style
// (ReaderWithCloser, multiReader) applied to event delivery instead of
// byte streams: each probe is a thin decorator around the next.
type Probe interface {
	// Throw delivers an event thrown by pipe to this probe. Returns true
	// if the event was handled and should not propagate further up the
	// chain.
	Throw(pipe Pipe, event Event, args ...interface{}) bool
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(pipe Pipe, event Event, args ...interface{}) bool

// Throw implements Probe.
func (f ProbeFunc) Throw(pipe Pipe, event Event, args ...interface{}) bool {
	return f(pipe, event, args...)
}

// ChainProbe wraps an inner probe and a next probe: if inner does not
// handle the event, next is tried. A nil next makes a ChainProbe the
// end of the chain, events it does not handle are simply dropped.
type ChainProbe struct {
	inner Probe
	next  Probe
}

// NewChainProbe builds a probe that tries inner first, falling back to
// next when inner reports the event unhandled.
func NewChainProbe(inner, next Probe) *ChainProbe {
	return &ChainProbe{inner: inner, next: next}
}

// Throw implements Probe.
func (c *ChainProbe) Throw(pipe Pipe, event Event, args ...interface{}) bool {
	if c.inner != nil && c.inner.Throw(pipe, event, args...) {
		return true
	}
	if c.next != nil {
		return c.next.Throw(pipe, event, args...)
	}
	return false
}

// Pipe is the contract every dataflow node implements: push-mode data
// enters through Input, control operations flow through Control, and
// asynchronous notifications leave through the probe attached at
// construction time.
//
// A Pipe does not expose its probe or its refcount directly; those are
// provided by embedding Base, which pipe authors use the way the
// teacher's concrete Reader/Writer implementations embed shared
// plumbing rather than reimplementing it per type.
type Pipe interface {
	// Input accepts one uref of data. The pipe takes ownership of ref:
	// it must either forward it downstream, queue it internally, or
	// call ref.Free(). pump is a pump (see package pump) the pipe may
	// use to defer blocked work; it is interface{} here to avoid an
	// import cycle between upipe and upipe/pump.
	Input(ref *URef, pump interface{}) error

	// Control executes a control command. See command.go for the
	// standard command set and the shape of args each one expects.
	Control(cmd Command, args ...interface{}) error

	// Use adds an external reference to the pipe (see TwoPhase).
	Use()
	// Release drops an external reference to the pipe.
	Release()
}

// Manager is a pipe factory: the long-lived object responsible for
// producing Pipe instances of one concrete kind, analogous to how a
// UMemManager produces UMem instances. Pipe managers are themselves
// refcounted so a pipe can keep its manager alive for as long as it
// exists.
type Manager interface {
	// NewPipe creates a pipe of this manager's kind, wired to probe.
	NewPipe(probe Probe) (Pipe, error)

	// Use adds a reference to the manager.
	Use()
	// Release drops a reference to the manager.
	Release()
}

// Base is embeddable plumbing shared by concrete Pipe implementations:
// a two-phase refcount and the attached probe. It has no Control
// method; each concrete pipe handles its own commands.
type Base struct {
	rc    *TwoPhase
	probe Probe
}

// NewBase creates Base plumbing for a pipe. onNoInput is invoked when
// the pipe's last external reference drops (the point at which most
// pipes stop accepting new Input and flush); onFree is invoked once the
// pipe's internal bookkeeping (queued urefs, subpipe back-references)
// has also drained, the point at which any attached managers should be
// released.
func NewBase(probe Probe, onNoInput, onFree func()) Base {
	return Base{rc: NewTwoPhase(onNoInput, onFree), probe: probe}
}

// Use implements Pipe.
func (b *Base) Use() { b.rc.UseExternal() }

// Release implements Pipe.
func (b *Base) Release() { b.rc.ReleaseExternal() }

// UseInternal adds an internal reference, keeping the pipe's
// bookkeeping alive past the last external Release (e.g. while a uref
// is still queued).
func (b *Base) UseInternal() { b.rc.UseInternal() }

// ReleaseInternal drops an internal reference.
func (b *Base) ReleaseInternal() { b.rc.ReleaseInternal() }

// Throw delivers an event to the pipe's attached probe, if any.
// Concrete pipes call this instead of holding their own probe field.
func (b *Base) Throw(self Pipe, event Event, args ...interface{}) bool {
	if b.probe == nil {
		return false
	}
	return b.probe.Throw(self, event, args...)
}

// Probe returns the probe attached to this pipe.
func (b *Base) Probe() Probe {
	return b.probe
}
