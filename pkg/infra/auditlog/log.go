package auditlog

import (
	"sync"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxEvents   = 10000
	DefaultRecentLimit = 100
	DefaultFilterLimit = 50
)

// EventDispatcher hands a recorded event to external sinks. It must not block.
type EventDispatcher interface {
	Dispatch(event security.Event)
}

type Option func(*Log)

func WithMaxEvents(n int) Option {
	return func(l *Log) {
		if n >= 2 {
			l.maxEvents = n
		}
	}
}

func WithTimeProvider(fn func() time.Time) Option {
	return func(l *Log) {
		if fn != nil {
			l.timeProvider = fn
		}
	}
}

func WithIDProvider(fn func() uuid.UUID) Option {
	return func(l *Log) {
		if fn != nil {
			l.idProvider = fn
		}
	}
}

func WithDispatcher(d EventDispatcher) Option {
	return func(l *Log) {
		l.dispatcher = d
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

var (
	_ security.AuditLogger = (*Log)(nil)
	_ security.AuditReader = (*Log)(nil)
)

// Log is a bounded, in-memory record of security events. Once full it drops
// the older half in one step and keeps appending.
type Log struct {
	mu     sync.RWMutex
	events []security.Event

	maxEvents    int
	timeProvider func() time.Time
	idProvider   func() uuid.UUID
	dispatcher   EventDispatcher
	logger       *logrus.Logger
}

func NewLog(opts ...Option) *Log {
	l := &Log{
		maxEvents:    DefaultMaxEvents,
		timeProvider: time.Now,
		idProvider:   uuid.New,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) MaxEvents() int {
	return l.maxEvents
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// LogEvent stamps the event with the current time and an id (unless one is
// already set), records it and forwards it to the dispatcher.
func (l *Log) LogEvent(event security.Event) {
	event.Timestamp = l.timeProvider()
	if event.ID == "" {
		event.ID = l.idProvider().String()
	}
	event = cloneEvent(event)

	l.mu.Lock()
	if len(l.events) >= l.maxEvents {
		keep := l.maxEvents / 2
		trimmed := make([]security.Event, keep, l.maxEvents)
		copy(trimmed, l.events[len(l.events)-keep:])
		l.events = trimmed
	}
	l.events = append(l.events, event)
	l.mu.Unlock()

	prometheus.SecurityEvents.WithLabelValues(string(event.Type), string(event.Severity)).Inc()

	if l.dispatcher != nil {
		l.dispatcher.Dispatch(event)
	}
}

// cloneEvent detaches the Details map and User from the caller's copy.
func cloneEvent(event security.Event) security.Event {
	if event.Details != nil {
		details := make(map[string]any, len(event.Details))
		for k, v := range event.Details {
			details[k] = v
		}
		event.Details = details
	}
	if event.User != nil {
		user := *event.User
		event.User = &user
	}
	return event
}
