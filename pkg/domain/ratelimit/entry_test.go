package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDecision_Boundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	reset := now.Add(30 * time.Second)

	atLimit := NewDecision(Entry{Key: "k", Count: 10, WindowResetAt: reset}, 10, now)
	assert.True(t, atLimit.Allowed)
	assert.Equal(t, 0, atLimit.Remaining)
	assert.Equal(t, 0, atLimit.RetryAfterSeconds)

	over := NewDecision(Entry{Key: "k", Count: 11, WindowResetAt: reset}, 10, now)
	assert.False(t, over.Allowed)
	assert.Equal(t, 0, over.Remaining)
	assert.Equal(t, 30, over.RetryAfterSeconds)

	first := NewDecision(Entry{Key: "k", Count: 1, WindowResetAt: reset}, 10, now)
	assert.True(t, first.Allowed)
	assert.Equal(t, 9, first.Remaining)
}

func TestRetryAfter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, 1, RetryAfter(now.Add(1*time.Millisecond), now))
	assert.Equal(t, 1, RetryAfter(now.Add(time.Second), now))
	assert.Equal(t, 2, RetryAfter(now.Add(1001*time.Millisecond), now))
	assert.Equal(t, 900, RetryAfter(now.Add(15*time.Minute), now))
	assert.Equal(t, 0, RetryAfter(now, now))
	assert.Equal(t, 0, RetryAfter(now.Add(-time.Minute), now))
}

func TestEntry_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.True(t, Entry{WindowResetAt: now}.Expired(now))
	assert.True(t, Entry{WindowResetAt: now.Add(-time.Second)}.Expired(now))
	assert.False(t, Entry{WindowResetAt: now.Add(time.Nanosecond)}.Expired(now))
}
