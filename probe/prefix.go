package probe

import "upipe.dev/core"

// PrefixProbe tags every event it forwards with a name, useful when
// several pipes share one downstream probe chain and log output or
// error messages need to identify which pipe an event came from.
type PrefixProbe struct {
	prefix string
	next   upipe.Probe
}

// NewPrefixProbe creates a probe that forwards every event to next,
// unmodified except that args gets the prefix string prepended.
func NewPrefixProbe(prefix string, next upipe.Probe) *PrefixProbe {
	return &PrefixProbe{prefix: prefix, next: next}
}

// Throw implements upipe.Probe.
func (p *PrefixProbe) Throw(pipe upipe.Pipe, event upipe.Event, args ...interface{}) bool {
	if p.next == nil {
		return false
	}
	tagged := make([]interface{}, 0, len(args)+1)
	tagged = append(tagged, p.prefix)
	tagged = append(tagged, args...)
	return p.next.Throw(pipe, event, tagged...)
}
