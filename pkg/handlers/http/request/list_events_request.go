package request

import (
	"fmt"
	"strconv"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
)

const (
	DefaultEventsLimit = 100
	MaxEventsLimit     = 1000
)

// ListEventsRequest holds the raw query filters of the admin events listing.
type ListEventsRequest struct {
	Limit    string `query:"limit"`
	Type     string `query:"type"`
	Severity string `query:"severity"`
	IP       string `query:"ip"`
	UserID   string `query:"userId"`
}

func (r *ListEventsRequest) ToFilter() (security.Filter, error) {
	filter := security.Filter{
		Limit:  DefaultEventsLimit,
		IP:     r.IP,
		UserID: r.UserID,
	}
	if r.Limit != "" {
		limit, err := strconv.Atoi(r.Limit)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = min(limit, MaxEventsLimit)
	}
	if r.Type != "" {
		eventType := security.EventType(r.Type)
		if !eventType.Valid() {
			return filter, fmt.Errorf("unknown event type %q", r.Type)
		}
		filter.Type = eventType
	}
	if r.Severity != "" {
		severity := security.Severity(r.Severity)
		if !severity.Valid() {
			return filter, fmt.Errorf("unknown severity %q", r.Severity)
		}
		filter.Severity = severity
	}
	return filter, nil
}
