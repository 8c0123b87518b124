package security

import "time"

type EventType string

const (
	EventAuthSuccess        EventType = "auth_success"
	EventAuthFailure        EventType = "auth_failure"
	EventRateLimit          EventType = "rate_limit"
	EventSuspiciousActivity EventType = "suspicious_activity"
	EventAdminAction        EventType = "admin_action"
)

func (t EventType) Valid() bool {
	switch t {
	case EventAuthSuccess, EventAuthFailure, EventRateLimit, EventSuspiciousActivity, EventAdminAction:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type Source struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Event is a recorded security fact. Events are never modified once logged.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Severity  Severity       `json:"severity"`
	Source    Source         `json:"source"`
	User      *User          `json:"user,omitempty"`
	Details   map[string]any `json:"details"`
}
