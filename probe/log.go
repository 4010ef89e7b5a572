// Package probe implements the standard probe chain adapters: a
// structured-logging probe, a prefix/tag probe, resource-providing
// probes that answer NEED-* events out of attached managers, and a
// transfer probe for crossing pump boundaries.
package probe

import (
	"go.uber.org/zap"

	"upipe.dev/core"
)

// LogProbe logs every event it sees via a zap.Logger, then forwards it
// unhandled so a later probe in the chain still gets a chance to act on
// it. This mirrors the spec's "log probe" adapter, grounded on
// GriffinCanCode-ArtificialOS's use of zap for structured, leveled
// service logging.
type LogProbe struct {
	log   *zap.Logger
	level func(upipe.Event) zapLevelFunc
	next  upipe.Probe
}

type zapLevelFunc func(msg string, fields ...zap.Field)

// NewLogProbe creates a LogProbe writing to log and forwarding
// unhandled events to next (nil is a valid, chain-terminating next).
func NewLogProbe(log *zap.Logger, next upipe.Probe) *LogProbe {
	return &LogProbe{log: log, next: next}
}

func (p *LogProbe) levelFor(event upipe.Event) zapLevelFunc {
	switch event {
	case upipe.EventFatal:
		return p.log.Error
	case upipe.EventError:
		return p.log.Warn
	default:
		return p.log.Debug
	}
}

// Throw implements upipe.Probe.
func (p *LogProbe) Throw(pipe upipe.Pipe, event upipe.Event, args ...interface{}) bool {
	p.levelFor(event)("upipe event",
		zap.String("event", event.String()),
		zap.Int("argc", len(args)),
	)
	if p.next != nil {
		return p.next.Throw(pipe, event, args...)
	}
	return false
}
