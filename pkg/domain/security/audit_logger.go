package security

import "github.com/asca-arts/gatekeeper/pkg/types"

// AuditLogger records security events. None of its methods fail observably.
type AuditLogger interface {
	LogEvent(event Event)
	LogAuthSuccess(req types.Request, user User)
	LogAuthFailure(req types.Request, reason string)
	LogRateLimit(req types.Request, count, limit int)
	LogSuspiciousActivity(req types.Request, activity string, details map[string]any)
	LogAdminAction(req types.Request, user User, action string, target string)
}

// AuditReader is the read side used by the admin query surface.
type AuditReader interface {
	GetRecentEvents(limit int) []Event
	GetEventsByType(eventType EventType, limit int) []Event
	GetEventsByIP(ip string, limit int) []Event
	Query(filter Filter) []Event
	GetStats() Stats
}
