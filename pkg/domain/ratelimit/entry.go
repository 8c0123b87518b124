package ratelimit

import (
	"math"
	"time"
)

// Entry is the fixed-window counter for one client key. Count only ever
// grows within a window and goes back to zero when a new window starts.
type Entry struct {
	Key           string
	Count         int
	WindowResetAt time.Time
}

func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.WindowResetAt)
}

type Decision struct {
	Allowed           bool
	Key               string
	Count             int
	Limit             int
	Remaining         int
	ResetAt           time.Time
	RetryAfterSeconds int
}

func NewDecision(entry Entry, limit int, now time.Time) Decision {
	d := Decision{
		Allowed: entry.Count <= limit,
		Key:     entry.Key,
		Count:   entry.Count,
		Limit:   limit,
		ResetAt: entry.WindowResetAt,
	}
	if remaining := limit - entry.Count; remaining > 0 {
		d.Remaining = remaining
	}
	if !d.Allowed {
		d.RetryAfterSeconds = RetryAfter(entry.WindowResetAt, now)
	}
	return d
}

// RetryAfter is ceil((resetAt-now)/1s), never negative.
func RetryAfter(resetAt, now time.Time) int {
	left := resetAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
