package ratelimit

import (
	"context"
	"time"
)

type Store interface {
	// Increment opens a fresh window for key when none exists or the current
	// one has elapsed, then counts one request. Implementations must make the
	// whole read-increment-write atomic per key.
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (Entry, error)
	// Sweep drops entries whose window has elapsed and reports how many went.
	Sweep(ctx context.Context, now time.Time) (int, error)
	// Len reports tracked keys, or -1 when the backend cannot tell cheaply.
	Len() int
}
