// Package pump implements the pluggable event-loop scheduler pipes
// share: watchers for timers, idlers and file descriptors (there is no
// signal watcher), all multiplexed onto one Manager per thread so hundreds of independently
// authored pipes never need their own goroutine.
//
// Grounded on ehrlich-b-go-ublk's internal/queue.Runner, which drives a
// single io_uring completion loop shared across many in-flight
// operations with per-tag callbacks; Manager generalizes that shape
// from "one completion queue, many io tags" to "one dispatch loop, many
// watcher kinds" and adds a second, portable backend built on Go
// channels and time.Timer for platforms or tests where epoll is not
// wanted.
package pump

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrUnsupported is returned by a Pump operation the active backend
// cannot perform (e.g. an fd-watcher on the native backend).
var ErrUnsupported = errors.New("pump: watcher kind not supported by this backend")

// Pump is a single registered watcher: a timer, an idler or a file
// descriptor watcher; neither backend offers signal watchers. Start arms it, Stop disarms it; a
// Pump can be Started and Stopped repeatedly over its lifetime.
type Pump interface {
	Start() error
	Stop() error
}

// Manager multiplexes many Pumps onto one dispatch loop. Implementations
// are provided by native.go (a portable channel/timer backend) and
// epoll.go (a Linux epoll backend for fd-driven watchers via
// golang.org/x/sys/unix).
type Manager interface {
	// NewTimer creates a Pump that calls fn after after, then every
	// repeat if repeat is non-zero (a one-shot timer if repeat is 0).
	NewTimer(after, repeat time.Duration, fn func()) Pump

	// NewIdler creates a Pump that calls fn once per loop iteration
	// while no higher-priority work is pending, and not at all once
	// Stopped.
	NewIdler(fn func()) Pump

	// NewFDWatcher creates a Pump that calls fn when fd becomes
	// readable. Only the epoll backend supports this; the native
	// backend's NewFDWatcher returns an error-returning stub pump.
	NewFDWatcher(fd int, fn func()) Pump

	// Run starts the manager's dispatch loop, blocking until Stop is
	// called.
	Run() error

	// Stop asks the dispatch loop to exit. Pumps still registered with
	// this manager are not disarmed.
	Stop()
}

// Options configures a Manager's ambient behavior.
type Options struct {
	// Logger receives structured diagnostics about watcher lifecycle.
	// Defaults to zap.NewNop() if nil.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// idState is shared bookkeeping both backends use to assign a stable id
// to every registered pump, for metrics labeling and log correlation.
type idState struct {
	mu   sync.Mutex
	next uint64
}

func (s *idState) allocate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}
