// Package connectivity derives the single online/offline signal the sync
// core runs on. The backend is probed on an interval (with exponential
// backoff while persistently offline) and health is transitive through the
// backend's self-reported status, not just reachability.
package connectivity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/logging"
	"github.com/mkhitrov/furnboard/internal/metricx"
)

// HealthChecker probes the backend. nil means healthy;
// common.ErrBackendDegraded means reachable but degraded.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// QueueCounter reports how many mutations await replay.
type QueueCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Bus rooms and event names published by the monitor.
const (
	RoomConnectivity = "connectivity"
	RoomSync         = "sync"

	EventRecovered   = "connectivity.recovered"
	EventDegraded    = "connectivity.degraded"
	EventSyncPending = "sync.pending"
)

// Offline reasons attached to degraded transitions.
const (
	ReasonNetwork = "network"
	ReasonBackend = "backend"
)

// Transition is the payload of recovered/degraded events.
type Transition struct {
	Online bool
	Reason string
}

// Options configures probe cadence. Zero fields take defaults.
type Options struct {
	Interval     time.Duration // poll interval while online (default 5s)
	ProbeTimeout time.Duration // per-probe bound (default 5s)
	BackoffMin   time.Duration // first retry delay while offline (default Interval)
	BackoffMax   time.Duration // retry delay cap while offline (default 60s)
}

func (o *Options) withDefaults() {
	if o.Interval <= 0 {
		o.Interval = 5 * time.Second
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 5 * time.Second
	}
	if o.BackoffMin <= 0 {
		o.BackoffMin = o.Interval
	}
	if o.BackoffMax <= 0 {
		o.BackoffMax = 60 * time.Second
	}
}

// Monitor owns the online/offline state machine. There is no terminal
// state; Run loops for the life of the session.
type Monitor struct {
	checker HealthChecker
	queue   QueueCounter
	pub     bus.Publisher
	log     logging.Logger
	opts    Options

	kick chan struct{}

	mu          sync.Mutex
	online      bool
	evaluated   bool
	offlineWait retry.Backoff
}

// New builds a Monitor. The state starts as online until the first probe
// resolves.
func New(checker HealthChecker, queue QueueCounter, pub bus.Publisher, log logging.Logger, opts Options) *Monitor {
	opts.withDefaults()
	return &Monitor{
		checker: checker,
		queue:   queue,
		pub:     pub,
		log:     log,
		opts:    opts,
		kick:    make(chan struct{}, 1),
		online:  true,
	}
}

// Online reports the current boolean signal.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check requests an immediate probe. Used as the fast path for platform
// online/offline events and realtime disconnects. Non-blocking.
func (m *Monitor) Check() {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Run probes once immediately, then on a timer. While offline the delay
// grows exponentially up to BackoffMax and resets on recovery. Returns when
// ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.probe(ctx)

	timer := time.NewTimer(m.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-m.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		m.probe(ctx)
		timer.Reset(m.nextDelay())
	}
}

func (m *Monitor) nextDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online || m.offlineWait == nil {
		return m.opts.Interval
	}
	d, _ := m.offlineWait.Next()
	return d
}

// probe evaluates health once and publishes a transition if the state
// flipped. The very first evaluation only sets the state, so startup does
// not toast.
func (m *Monitor) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, m.opts.ProbeTimeout)
	err := m.checker.Health(pctx)
	cancel()

	healthy := err == nil
	reason := ReasonNetwork
	result := "ok"
	if errors.Is(err, common.ErrBackendDegraded) {
		reason = ReasonBackend
		result = "degraded"
	} else if err != nil {
		result = "network_error"
	}

	m.mu.Lock()
	first := !m.evaluated
	m.evaluated = true
	prev := m.online
	m.online = healthy
	if !healthy && (first || prev) {
		// Entering offline: start a fresh backoff sequence.
		m.offlineWait = retry.WithCappedDuration(m.opts.BackoffMax,
			retry.NewExponential(m.opts.BackoffMin))
	}
	m.mu.Unlock()

	metricx.ProbeTotal.WithLabelValues(result).Inc()
	if healthy {
		metricx.Online.Set(1)
	} else {
		metricx.Online.Set(0)
	}

	if first {
		m.log.Info(ctx, "initial connectivity state", "online", healthy)
		// No transition toast on startup, but a queue persisted from a
		// previous session still needs a drain trigger.
		if healthy {
			m.notifyPending(ctx)
		}
		return
	}
	if prev == healthy {
		return
	}

	if healthy {
		m.log.Info(ctx, "connection restored")
		_ = m.pub.Publish(RoomConnectivity, EventRecovered, Transition{Online: true})
		m.notifyPending(ctx)
		return
	}

	m.log.Warn(ctx, "connection lost", "reason", reason)
	_ = m.pub.Publish(RoomConnectivity, EventDegraded, Transition{Online: false, Reason: reason})
}

// notifyPending lets dependents start a drain without polling the queue.
// Best effort: a count failure is only logged.
func (m *Monitor) notifyPending(ctx context.Context) {
	n, err := m.queue.Count(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to count pending queue", "error", err)
		return
	}
	if n > 0 {
		_ = m.pub.Publish(RoomSync, EventSyncPending, n)
	}
}
