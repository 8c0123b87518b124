package auditlog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Sink delivers an event to one external channel.
type Sink interface {
	Name() string
	Handle(ctx context.Context, event security.Event) error
}

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SinkTimeout time.Duration
}

type delivery struct {
	sink  Sink
	event security.Event
}

var _ EventDispatcher = (*Dispatcher)(nil)

// Dispatcher routes events to sinks on worker goroutines. A full queue drops
// deliveries instead of blocking the caller.
type Dispatcher struct {
	routes  *RoutingTable
	sinks   map[Policy][]Sink
	sinksMu sync.RWMutex

	queue   chan delivery
	timeout time.Duration
	logger  *logrus.Logger

	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeMu   sync.RWMutex
	closeOnce sync.Once
}

func NewDispatcher(cfg DispatcherConfig, routes *RoutingTable, logger *logrus.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.SinkTimeout <= 0 {
		cfg.SinkTimeout = 2 * time.Second
	}
	if routes == nil {
		routes = DefaultRoutingTable()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	d := &Dispatcher{
		routes:  routes,
		sinks:   make(map[Policy][]Sink),
		queue:   make(chan delivery, cfg.QueueSize),
		timeout: cfg.SinkTimeout,
		logger:  logger,
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Register attaches a sink to a policy. Policies without sinks are skipped.
func (d *Dispatcher) Register(policy Policy, sink Sink) {
	d.sinksMu.Lock()
	defer d.sinksMu.Unlock()
	d.sinks[policy] = append(d.sinks[policy], sink)
}

func (d *Dispatcher) Dispatch(event security.Event) {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed.Load() {
		return
	}

	d.sinksMu.RLock()
	defer d.sinksMu.RUnlock()
	for _, policy := range d.routes.Route(event.Type, event.Severity) {
		for _, sink := range d.sinks[policy] {
			select {
			case d.queue <- delivery{sink: sink, event: event}:
			default:
				d.dropped.Add(1)
				prometheus.SinkDropped.Inc()
				d.logger.WithFields(logrus.Fields{
					"sink":     sink.Name(),
					"event_id": event.ID,
				}).Warn("audit dispatch queue full, dropping delivery")
			}
		}
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for task := range d.queue {
		d.deliver(task)
	}
}

func (d *Dispatcher) deliver(task delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			prometheus.SinkFailures.WithLabelValues(task.sink.Name()).Inc()
			d.logger.WithFields(logrus.Fields{
				"sink":     task.sink.Name(),
				"event_id": task.event.ID,
				"panic":    fmt.Sprintf("%v", r),
			}).Error("audit sink panicked")
		}
	}()

	if err := task.sink.Handle(ctx, task.event); err != nil {
		prometheus.SinkFailures.WithLabelValues(task.sink.Name()).Inc()
		d.logger.WithError(err).WithFields(logrus.Fields{
			"sink":     task.sink.Name(),
			"event_id": task.event.ID,
		}).Warn("audit sink delivery failed")
	}
}

func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.closeMu.Lock()
		d.closed.Store(true)
		close(d.queue)
		d.closeMu.Unlock()
		d.wg.Wait()
	})
}
