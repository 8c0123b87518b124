package security

// Filter narrows an event listing. Zero-valued fields match everything.
type Filter struct {
	Limit    int
	Type     EventType
	Severity Severity
	IP       string
	UserID   string
}

func (f Filter) Match(e Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Severity != "" && e.Severity != f.Severity {
		return false
	}
	if f.IP != "" && e.Source.IP != f.IP {
		return false
	}
	if f.UserID != "" && (e.User == nil || e.User.ID != f.UserID) {
		return false
	}
	return true
}

type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

type Stats struct {
	Total      int               `json:"total"`
	LastHour   int               `json:"lastHour"`
	LastDay    int               `json:"lastDay"`
	ByType     map[EventType]int `json:"byType"`
	BySeverity map[Severity]int  `json:"bySeverity"`
	TopIPs     []IPCount         `json:"topIPs"`
}
