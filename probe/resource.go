package probe

import "upipe.dev/core"

// ResourceProbe answers NEED-* events (a pump manager, a clock, a uref
// allocator, a ubuf manager) directly out of whatever has been attached
// to it via Set*, falling back to next for anything it has not been
// given a resource for. This is the probe an application installs at
// the top of a pipeline's probe chain so individual pipes don't each
// need their own resource-discovery logic.
type ResourceProbe struct {
	upumpMgr interface{}
	uclock   interface{}
	urefMgr  interface{}
	ubufMgrs map[string]upipe.UMemManager

	next upipe.Probe
}

// NewResourceProbe creates an empty ResourceProbe forwarding anything
// it cannot answer to next.
func NewResourceProbe(next upipe.Probe) *ResourceProbe {
	return &ResourceProbe{ubufMgrs: map[string]upipe.UMemManager{}, next: next}
}

// SetUpumpMgr attaches the pump manager to hand out in response to
// EventNeedUpumpMgr.
func (p *ResourceProbe) SetUpumpMgr(mgr interface{}) { p.upumpMgr = mgr }

// SetUclock attaches the clock reference to hand out in response to
// EventNeedUclock.
func (p *ResourceProbe) SetUclock(clock interface{}) { p.uclock = clock }

// SetURefMgr attaches the uref allocator to hand out in response to
// EventNeedURefMgr.
func (p *ResourceProbe) SetURefMgr(mgr interface{}) { p.urefMgr = mgr }

// SetUbufMgr registers a umem/ubuf manager for one flow definition,
// answered in response to EventNeedUbufMgr / RequestUbufMgr. Lookups
// match the flow definition exactly, not by prefix.
func (p *ResourceProbe) SetUbufMgr(flowDef string, mgr upipe.UMemManager) {
	p.ubufMgrs[flowDef] = mgr
}

// Throw implements upipe.Probe.
func (p *ResourceProbe) Throw(pipe upipe.Pipe, event upipe.Event, args ...interface{}) bool {
	switch event {
	case upipe.EventNeedUpumpMgr:
		if p.upumpMgr != nil {
			return pipe.Control(upipe.CommandAttachUpumpMgr, p.upumpMgr) == nil
		}
	case upipe.EventNeedUclock:
		if p.uclock != nil {
			return pipe.Control(upipe.CommandAttachUclock, p.uclock) == nil
		}
	case upipe.EventNeedURefMgr:
		if p.urefMgr != nil {
			return pipe.Control(upipe.CommandAttachURefMgr, p.urefMgr) == nil
		}
	case upipe.EventNeedUbufMgr:
		if len(args) > 0 {
			if def, ok := args[0].(string); ok {
				if mgr, ok := p.ubufMgrs[def]; ok {
					return pipe.Control(upipe.CommandAttachUbufMgr, mgr) == nil
				}
			}
		}
	case upipe.EventProvideRequest:
		if len(args) > 0 {
			if req, ok := args[0].(*upipe.Request); ok {
				if p.answerRequest(req) {
					return true
				}
			}
		}
	}
	if p.next != nil {
		return p.next.Throw(pipe, event, args...)
	}
	return false
}

func (p *ResourceProbe) answerRequest(req *upipe.Request) bool {
	switch req.Kind {
	case upipe.RequestURefMgr:
		if p.urefMgr != nil {
			req.Answer(p.urefMgr)
			return true
		}
	case upipe.RequestUclock:
		if p.uclock != nil {
			req.Answer(p.uclock)
			return true
		}
	case upipe.RequestUbufMgr:
		if mgr, ok := p.ubufMgrs[req.FlowDef]; ok {
			req.Answer(mgr)
			return true
		}
	}
	return false
}
