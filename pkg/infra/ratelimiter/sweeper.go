package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const DefaultSweepInterval = 5 * time.Minute

type Sweepable interface {
	Name() string
	Sweep(ctx context.Context) (int, error)
	Len() int
}

// Sweeper periodically drops expired windows from every registered limiter.
type Sweeper struct {
	interval time.Duration
	targets  []Sweepable
	logger   *logrus.Logger

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(interval time.Duration, logger *logrus.Logger, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sweeper{
		interval: interval,
		targets:  targets,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop in the background until ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.doneCh
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) int {
	total := 0
	for _, target := range s.targets {
		removed, err := target.Sweep(ctx)
		total += removed
		if err != nil {
			s.logger.WithError(err).WithField("limiter", target.Name()).Warn("rate limit sweep interrupted")
		}
		prometheus.RateLimitSwept.WithLabelValues(target.Name()).Add(float64(removed))
		if n := target.Len(); n >= 0 {
			prometheus.RateLimitEntries.WithLabelValues(target.Name()).Set(float64(n))
		}
		if removed > 0 {
			s.logger.WithFields(logrus.Fields{
				"limiter":   target.Name(),
				"removed":   removed,
				"remaining": target.Len(),
			}).Debug("rate limit sweep completed")
		}
	}
	return total
}
