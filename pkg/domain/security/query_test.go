package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Match(t *testing.T) {
	evt := Event{
		Type:     EventAdminAction,
		Severity: SeverityMedium,
		Source:   Source{IP: "10.0.0.1"},
		User:     &User{ID: "admin-1"},
	}

	assert.True(t, Filter{}.Match(evt))
	assert.True(t, Filter{Type: EventAdminAction, Severity: SeverityMedium, IP: "10.0.0.1", UserID: "admin-1"}.Match(evt))
	assert.False(t, Filter{Type: EventRateLimit}.Match(evt))
	assert.False(t, Filter{Severity: SeverityHigh}.Match(evt))
	assert.False(t, Filter{IP: "10.0.0.2"}.Match(evt))
	assert.False(t, Filter{UserID: "admin-2"}.Match(evt))

	anonymous := Event{Type: EventAuthFailure}
	assert.False(t, Filter{UserID: "admin-1"}.Match(anonymous))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, EventRateLimit.Valid())
	assert.False(t, EventType("login").Valid())
	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("urgent").Valid())
}
