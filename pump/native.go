package pump

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// nativeManager is the portable Manager backend: timers are driven by
// time.AfterFunc posting closures onto a work channel, and idlers run
// opportunistically between posted callbacks. It has no fd-watching
// capability; NewFDWatcher returns a Pump whose Start reports
// ErrUnsupported.
type nativeManager struct {
	ids idState
	log *zap.Logger

	mu      sync.Mutex
	idlers  map[uint64]*nativeIdler
	running bool
	stopCh  chan struct{}
	workCh  chan func()

	metrics *managerMetrics
}

// NewNativeManager creates a Manager backed purely by the Go runtime's
// timers and goroutines: no syscalls, works on every platform Go
// supports.
func NewNativeManager(opts Options) Manager {
	return &nativeManager{
		log:     opts.logger(),
		idlers:  map[uint64]*nativeIdler{},
		stopCh:  make(chan struct{}),
		workCh:  make(chan func(), 64),
		metrics: newManagerMetrics("native"),
	}
}

type nativeTimer struct {
	mgr    *nativeManager
	after  time.Duration
	repeat time.Duration
	fn     func()
	timer  *time.Timer
	mu     sync.Mutex
	id     uint64
}

func (t *nativeTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(t.after, t.fire)
	t.mgr.metrics.watchers.WithLabelValues("timer").Inc()
	return nil
}

func (t *nativeTimer) fire() {
	t.mgr.post(t.fn)
	t.mu.Lock()
	if t.repeat > 0 && t.timer != nil {
		t.timer.Reset(t.repeat)
	}
	t.mu.Unlock()
}

func (t *nativeTimer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.mgr.metrics.watchers.WithLabelValues("timer").Dec()
	}
	return nil
}

type nativeIdler struct {
	mgr *nativeManager
	id  uint64
	fn  func()
}

func (i *nativeIdler) Start() error {
	i.mgr.mu.Lock()
	i.mgr.idlers[i.id] = i
	i.mgr.mu.Unlock()
	i.mgr.metrics.watchers.WithLabelValues("idler").Inc()
	return nil
}

func (i *nativeIdler) Stop() error {
	i.mgr.mu.Lock()
	delete(i.mgr.idlers, i.id)
	i.mgr.mu.Unlock()
	i.mgr.metrics.watchers.WithLabelValues("idler").Dec()
	return nil
}

type unsupportedPump struct{}

func (unsupportedPump) Start() error { return ErrUnsupported }
func (unsupportedPump) Stop() error  { return nil }

func (m *nativeManager) NewTimer(after, repeat time.Duration, fn func()) Pump {
	return &nativeTimer{mgr: m, after: after, repeat: repeat, fn: fn, id: m.ids.allocate()}
}

func (m *nativeManager) NewIdler(fn func()) Pump {
	return &nativeIdler{mgr: m, fn: fn, id: m.ids.allocate()}
}

func (m *nativeManager) NewFDWatcher(fd int, fn func()) Pump {
	return unsupportedPump{}
}

func (m *nativeManager) post(fn func()) {
	select {
	case m.workCh <- fn:
	case <-m.stopCh:
	}
}

// Run drives the dispatch loop: posted timer callbacks run as they
// arrive, and whenever none are pending every registered idler gets one
// turn before the loop yields briefly to avoid spinning.
func (m *nativeManager) Run() error {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()

	for {
		select {
		case <-m.stopCh:
			return nil
		case fn := <-m.workCh:
			m.metrics.invocations.WithLabelValues("timer").Inc()
			fn()
		default:
			m.runIdlers()
			select {
			case <-m.stopCh:
				return nil
			case fn := <-m.workCh:
				m.metrics.invocations.WithLabelValues("timer").Inc()
				fn()
			case <-time.After(time.Millisecond):
			}
		}
	}
}

func (m *nativeManager) runIdlers() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.idlers))
	for _, idler := range m.idlers {
		fns = append(fns, idler.fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		m.metrics.invocations.WithLabelValues("idler").Inc()
		fn()
	}
}

func (m *nativeManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

type managerMetrics struct {
	watchers    *prometheus.GaugeVec
	invocations *prometheus.CounterVec
}

func newManagerMetrics(backend string) *managerMetrics {
	return &managerMetrics{
		watchers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "upipe",
			Subsystem:   "pump",
			Name:        "watchers",
			Help:        "Number of registered watchers by kind.",
			ConstLabels: prometheus.Labels{"backend": backend},
		}, []string{"kind"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "upipe",
			Subsystem:   "pump",
			Name:        "invocations_total",
			Help:        "Number of times a watcher callback has fired.",
			ConstLabels: prometheus.Labels{"backend": backend},
		}, []string{"kind"}),
	}
}

// Describe implements prometheus.Collector.
func (m *managerMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.watchers.Describe(ch)
	m.invocations.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *managerMetrics) Collect(ch chan<- prometheus.Metric) {
	m.watchers.Collect(ch)
	m.invocations.Collect(ch)
}
