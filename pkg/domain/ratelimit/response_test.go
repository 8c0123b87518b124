package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeaders_Allowed(t *testing.T) {
	reset := time.UnixMilli(1_700_000_060_000)
	h := Headers(Decision{Allowed: true, Limit: 100, Remaining: 42, ResetAt: reset})

	assert.Equal(t, "100", h[HeaderLimit])
	assert.Equal(t, "42", h[HeaderRemaining])
	assert.Equal(t, "1700000060000", h[HeaderReset])
	assert.NotContains(t, h, HeaderRetryAfter)
}

func TestHeaders_Rejected(t *testing.T) {
	reset := time.UnixMilli(1_700_000_060_000)
	h := Headers(Decision{Allowed: false, Limit: 10, Remaining: 0, ResetAt: reset, RetryAfterSeconds: 17})

	assert.Equal(t, "10", h[HeaderLimit])
	assert.Equal(t, "0", h[HeaderRemaining])
	assert.Equal(t, "17", h[HeaderRetryAfter])
}

func TestNewRejectionBody(t *testing.T) {
	body := NewRejectionBody(Decision{RetryAfterSeconds: 12})

	assert.False(t, body.Success)
	assert.Equal(t, "Too Many Requests", body.Error)
	assert.Equal(t, 12, body.RetryAfter)
	assert.Contains(t, body.Message, "12 seconds")
}
