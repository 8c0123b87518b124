package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/asca-arts/gatekeeper/pkg/infra/clientip"
	"github.com/asca-arts/gatekeeper/pkg/infra/fingerprint"
	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/sirupsen/logrus"
)

type KeyGenerator func(req types.Request) string

type Option func(*Limiter)

func WithKeyGenerator(fn KeyGenerator) Option {
	return func(l *Limiter) {
		if fn != nil {
			l.keyGenerator = fn
		}
	}
}

func WithTimeProvider(fn func() time.Time) Option {
	return func(l *Limiter) {
		if fn != nil {
			l.timeProvider = fn
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

var _ ratelimit.Checker = (*Limiter)(nil)

// Limiter admits or rejects requests against a fixed window per client key.
type Limiter struct {
	name         string
	config       ratelimit.Config
	store        ratelimit.Store
	keyGenerator KeyGenerator
	timeProvider func() time.Time
	logger       *logrus.Logger
}

func NewLimiter(name string, cfg ratelimit.Config, store ratelimit.Store, opts ...Option) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for rate limiter %q: %w", name, err)
	}
	if store == nil {
		store = NewMemoryStore(DefaultShards)
	}
	l := &Limiter{
		name:         name,
		config:       cfg,
		store:        store,
		keyGenerator: fingerprint.KeyFor,
		timeProvider: time.Now,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Limiter) Name() string {
	return l.name
}

func (l *Limiter) Config() ratelimit.Config {
	return l.config
}

func (l *Limiter) Check(ctx context.Context, req types.Request) (ratelimit.Decision, error) {
	key := l.keyGenerator(req)
	if key == "" {
		key = clientip.Unknown
	}
	now := l.timeProvider()

	entry, err := l.store.Increment(ctx, key, now, l.config.Window)
	if err != nil {
		prometheus.RateLimitStoreErrors.WithLabelValues(l.name).Inc()
		return ratelimit.Decision{}, fmt.Errorf("rate limiter %s: %w", l.name, err)
	}

	decision := ratelimit.NewDecision(entry, l.config.MaxRequests, now)
	if decision.Allowed {
		prometheus.RateLimitDecisions.WithLabelValues(l.name, "allowed").Inc()
		return decision, nil
	}

	prometheus.RateLimitDecisions.WithLabelValues(l.name, "rejected").Inc()
	l.logger.WithFields(logrus.Fields{
		"limiter":     l.name,
		"key":         key,
		"count":       decision.Count,
		"limit":       decision.Limit,
		"retry_after": decision.RetryAfterSeconds,
	}).Debug("rate limit exceeded")
	return decision, nil
}

func (l *Limiter) Sweep(ctx context.Context) (int, error) {
	return l.store.Sweep(ctx, l.timeProvider())
}

// Len is the number of live keys, or -1 when the store cannot tell.
func (l *Limiter) Len() int {
	return l.store.Len()
}
