package auditlog

import (
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/infra/clientip"
	"github.com/asca-arts/gatekeeper/pkg/types"
)

// SourceFromRequest describes where a request came from.
func SourceFromRequest(req types.Request) security.Source {
	if req == nil {
		return security.Source{IP: clientip.Unknown}
	}
	return security.Source{
		IP:        clientip.Extract(req),
		UserAgent: req.Header("User-Agent"),
		Path:      req.Path(),
		Method:    req.Method(),
	}
}

func (l *Log) LogAuthSuccess(req types.Request, user security.User) {
	l.LogEvent(security.Event{
		Type:     security.EventAuthSuccess,
		Severity: security.SeverityLow,
		Source:   SourceFromRequest(req),
		User:     &user,
		Details:  map[string]any{},
	})
}

func (l *Log) LogAuthFailure(req types.Request, reason string) {
	l.LogEvent(security.Event{
		Type:     security.EventAuthFailure,
		Severity: security.SeverityMedium,
		Source:   SourceFromRequest(req),
		Details:  map[string]any{"reason": reason},
	})
}

// LogRateLimit records a rejected request. Clients beyond twice their quota
// are reported with high severity.
func (l *Log) LogRateLimit(req types.Request, count, limit int) {
	severity := security.SeverityMedium
	if count > limit*2 {
		severity = security.SeverityHigh
	}
	l.LogEvent(security.Event{
		Type:     security.EventRateLimit,
		Severity: severity,
		Source:   SourceFromRequest(req),
		Details:  map[string]any{"count": count, "limit": limit},
	})
}

func (l *Log) LogSuspiciousActivity(req types.Request, activity string, details map[string]any) {
	merged := make(map[string]any, len(details)+1)
	for k, v := range details {
		merged[k] = v
	}
	merged["activity"] = activity
	l.LogEvent(security.Event{
		Type:     security.EventSuspiciousActivity,
		Severity: security.SeverityHigh,
		Source:   SourceFromRequest(req),
		Details:  merged,
	})
}

func (l *Log) LogAdminAction(req types.Request, user security.User, action string, target string) {
	details := map[string]any{"action": action}
	if target != "" {
		details["target"] = target
	}
	l.LogEvent(security.Event{
		Type:     security.EventAdminAction,
		Severity: security.SeverityMedium,
		Source:   SourceFromRequest(req),
		User:     &user,
		Details:  details,
	})
}
