package auditlog

import (
	"sort"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
)

const (
	statsHour  = time.Hour
	statsDay   = 24 * time.Hour
	topIPLimit = 10
)

func (l *Log) GetRecentEvents(limit int) []security.Event {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return l.Query(security.Filter{Limit: limit})
}

func (l *Log) GetEventsByType(eventType security.EventType, limit int) []security.Event {
	if limit <= 0 {
		limit = DefaultFilterLimit
	}
	return l.Query(security.Filter{Type: eventType, Limit: limit})
}

func (l *Log) GetEventsByIP(ip string, limit int) []security.Event {
	if limit <= 0 {
		limit = DefaultFilterLimit
	}
	return l.Query(security.Filter{IP: ip, Limit: limit})
}

// Query returns matching events, most recent first. A non-positive limit
// falls back to DefaultRecentLimit.
func (l *Log) Query(filter security.Filter) []security.Event {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]security.Event, 0, min(limit, len(l.events)))
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		if filter.Match(l.events[i]) {
			out = append(out, cloneEvent(l.events[i]))
		}
	}
	return out
}

func (l *Log) GetStats() security.Stats {
	now := l.timeProvider()
	hourAgo := now.Add(-statsHour)
	dayAgo := now.Add(-statsDay)

	stats := security.Stats{
		ByType:     make(map[security.EventType]int),
		BySeverity: make(map[security.Severity]int),
		TopIPs:     []security.IPCount{},
	}
	ipCounts := make(map[string]int)

	l.mu.RLock()
	stats.Total = len(l.events)
	for _, evt := range l.events {
		if evt.Timestamp.After(dayAgo) {
			stats.LastDay++
			ipCounts[evt.Source.IP]++
		}
		if evt.Timestamp.After(hourAgo) {
			stats.LastHour++
			stats.ByType[evt.Type]++
			stats.BySeverity[evt.Severity]++
		}
	}
	l.mu.RUnlock()

	for ip, count := range ipCounts {
		stats.TopIPs = append(stats.TopIPs, security.IPCount{IP: ip, Count: count})
	}
	sort.Slice(stats.TopIPs, func(i, j int) bool {
		if stats.TopIPs[i].Count != stats.TopIPs[j].Count {
			return stats.TopIPs[i].Count > stats.TopIPs[j].Count
		}
		return stats.TopIPs[i].IP < stats.TopIPs[j].IP
	})
	if len(stats.TopIPs) > topIPLimit {
		stats.TopIPs = stats.TopIPs[:topIPLimit]
	}
	return stats
}
