package auditlog

import "github.com/asca-arts/gatekeeper/pkg/domain/security"

// Policy names an output channel for security events.
type Policy string

const (
	PolicyLogDebug Policy = "log_debug"
	PolicyLogInfo  Policy = "log_info"
	PolicyLogWarn  Policy = "log_warn"
	PolicyLogError Policy = "log_error"
	PolicyAlert    Policy = "alert"
	PolicyExport   Policy = "export"
)

type Route struct {
	Type     security.EventType
	Severity security.Severity
}

// RoutingTable maps (type, severity) to the policies an event is sent to.
// Exact rows win over the per-severity fallback.
type RoutingTable struct {
	exact      map[Route][]Policy
	bySeverity map[security.Severity][]Policy
	fallback   []Policy
}

func NewRoutingTable(bySeverity map[security.Severity][]Policy, fallback []Policy) *RoutingTable {
	t := &RoutingTable{
		exact:      make(map[Route][]Policy),
		bySeverity: make(map[security.Severity][]Policy, len(bySeverity)),
		fallback:   fallback,
	}
	for severity, policies := range bySeverity {
		t.bySeverity[severity] = policies
	}
	return t
}

// DefaultRoutingTable sends everything to the leveled log and the exporter,
// pages on critical events, and keeps routine admin actions at info.
func DefaultRoutingTable() *RoutingTable {
	t := NewRoutingTable(map[security.Severity][]Policy{
		security.SeverityLow:      {PolicyLogInfo, PolicyExport},
		security.SeverityMedium:   {PolicyLogWarn, PolicyExport},
		security.SeverityHigh:     {PolicyLogError, PolicyExport},
		security.SeverityCritical: {PolicyLogError, PolicyAlert, PolicyExport},
	}, []Policy{PolicyLogWarn, PolicyExport})
	t.Set(security.EventAdminAction, security.SeverityMedium, PolicyLogInfo, PolicyExport)
	return t
}

func (t *RoutingTable) Set(eventType security.EventType, severity security.Severity, policies ...Policy) {
	t.exact[Route{Type: eventType, Severity: severity}] = policies
}

func (t *RoutingTable) Route(eventType security.EventType, severity security.Severity) []Policy {
	if policies, ok := t.exact[Route{Type: eventType, Severity: severity}]; ok {
		return policies
	}
	if policies, ok := t.bySeverity[severity]; ok {
		return policies
	}
	return t.fallback
}
