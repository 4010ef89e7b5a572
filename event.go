package upipe

// Event identifies a notification a pipe throws up its probe chain.
// Events carry pipe-defined arguments via the variadic args passed to
// Probe.Throw; local events (pipe-specific, not in this list) are
// expected to use values above EventLocal.
type Event int

const (
	// EventFatal reports an unrecoverable internal error; the pipe
	// cannot continue and will not throw further events.
	EventFatal Event = iota
	// EventError reports a recoverable error (a dropped uref, a retried
	// I/O failure); the pipe continues operating.
	EventError
	// EventReady reports that the pipe has finished initializing and is
	// prepared to accept input or be started.
	EventReady
	// EventDead reports that the pipe has released all its resources
	// and is about to be garbage collected.
	EventDead
	// EventSourceEnd reports that a source pipe has reached the natural
	// end of its input (EOF).
	EventSourceEnd

	// EventNeedUpumpMgr requests a pump manager from upstream.
	EventNeedUpumpMgr
	// EventNeedUclock requests a clock reference from upstream.
	EventNeedUclock
	// EventNeedURefMgr requests a uref allocator from upstream.
	EventNeedURefMgr
	// EventNeedUbufMgr requests a umem/ubuf manager from upstream,
	// typically carrying the flow definition that needs to be
	// satisfied.
	EventNeedUbufMgr
	// EventProvideRequest asks upstream to fulfil a pending Request (see
	// request.go); the Request itself is the event argument.
	EventProvideRequest

	// EventNewFlowDef reports that a pipe has committed to a new output
	// flow definition.
	EventNewFlowDef
	// EventSyncAcquired reports that a pipe has achieved synchronization
	// with its input stream (e.g. found a frame boundary).
	EventSyncAcquired
	// EventSyncLost reports the loss of synchronization previously
	// reported by EventSyncAcquired.
	EventSyncLost
	// EventClockRef reports a clock reference uref for downstream clock
	// recovery.
	EventClockRef
	// EventClockTS reports a clock timestamp uref.
	EventClockTS
	// EventSplitUpdate reports that a split pipe's output set has
	// changed (an output appeared or disappeared).
	EventSplitUpdate

	// EventFreezeUpumpMgr asks a bin's inner pipes to detach from the
	// pump manager ahead of a manager swap.
	EventFreezeUpumpMgr
	// EventThawUpumpMgr asks a bin's inner pipes to reattach to the pump
	// manager after a swap.
	EventThawUpumpMgr

	// EventLocal is the first value pipe implementations may use for
	// their own, locally-defined events.
	EventLocal Event = 0x8000
)

func (e Event) String() string {
	switch e {
	case EventFatal:
		return "fatal"
	case EventError:
		return "error"
	case EventReady:
		return "ready"
	case EventDead:
		return "dead"
	case EventSourceEnd:
		return "source-end"
	case EventNeedUpumpMgr:
		return "need-upump-mgr"
	case EventNeedUclock:
		return "need-uclock"
	case EventNeedURefMgr:
		return "need-uref-mgr"
	case EventNeedUbufMgr:
		return "need-ubuf-mgr"
	case EventProvideRequest:
		return "provide-request"
	case EventNewFlowDef:
		return "new-flow-def"
	case EventSyncAcquired:
		return "sync-acquired"
	case EventSyncLost:
		return "sync-lost"
	case EventClockRef:
		return "clock-ref"
	case EventClockTS:
		return "clock-ts"
	case EventSplitUpdate:
		return "split-update"
	case EventFreezeUpumpMgr:
		return "freeze-upump-mgr"
	case EventThawUpumpMgr:
		return "thaw-upump-mgr"
	default:
		return "local"
	}
}
