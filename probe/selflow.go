package probe

import (
	"sync"

	"upipe.dev/core"
)

// SelflowProbe answers EventSplitUpdate by creating (or reusing) one
// subpipe per distinct flow definition a split pipe announces, driven
// by a user-supplied predicate/factory pair; every other event is
// forwarded to next. This is
// the probe a demuxer's application installs so each elementary stream
// the demuxer discovers gets routed to a freshly created decoder
// without the application having to poll CommandSplitIterate itself.
type SelflowProbe struct {
	mu      sync.Mutex
	accept  func(flowDef string) bool
	spawn   func(flowDef string) (upipe.Pipe, error)
	spawned map[string]upipe.Pipe
	next    upipe.Probe
}

// NewSelflowProbe creates a SelflowProbe. accept decides whether a
// newly observed flow definition is relevant; spawn creates the
// subpipe to route that flow definition's urefs to.
func NewSelflowProbe(accept func(string) bool, spawn func(string) (upipe.Pipe, error), next upipe.Probe) *SelflowProbe {
	return &SelflowProbe{
		accept:  accept,
		spawn:   spawn,
		spawned: map[string]upipe.Pipe{},
		next:    next,
	}
}

// Throw implements upipe.Probe.
func (p *SelflowProbe) Throw(pipe upipe.Pipe, event upipe.Event, args ...interface{}) bool {
	if event == upipe.EventSplitUpdate {
		p.handleSplitUpdate(pipe)
		return true
	}
	if p.next != nil {
		return p.next.Throw(pipe, event, args...)
	}
	return false
}

func (p *SelflowProbe) handleSplitUpdate(pipe upipe.Pipe) {
	var cursor interface{}
	for {
		var flowDef string
		if err := pipe.Control(upipe.CommandSplitIterate, &cursor, &flowDef); err != nil || cursor == nil {
			return
		}
		if !p.accept(flowDef) {
			continue
		}
		p.mu.Lock()
		_, exists := p.spawned[flowDef]
		p.mu.Unlock()
		if exists {
			continue
		}
		sub, err := p.spawn(flowDef)
		if err != nil {
			continue
		}
		p.mu.Lock()
		p.spawned[flowDef] = sub
		p.mu.Unlock()
	}
}

// SubpipeFor returns the subpipe spawned for flowDef, if any.
func (p *SelflowProbe) SubpipeFor(flowDef string) (upipe.Pipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub, ok := p.spawned[flowDef]
	return sub, ok
}
