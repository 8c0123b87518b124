package response

import "github.com/asca-arts/gatekeeper/pkg/domain/security"

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

type SecurityEventsResponse struct {
	Success bool             `json:"success"`
	Events  []security.Event `json:"events"`
	Count   int              `json:"count"`
	Stats   security.Stats   `json:"stats"`
}

type SecurityStatsResponse struct {
	Success bool           `json:"success"`
	Stats   security.Stats `json:"stats"`
}

type LimiterStatus struct {
	Name        string `json:"name"`
	MaxRequests int    `json:"maxRequests"`
	WindowMs    int64  `json:"windowMs"`
	// LiveKeys is -1 when the backing store cannot count its keys.
	LiveKeys int `json:"liveKeys"`
}

type RateLimitStatusResponse struct {
	Success  bool            `json:"success"`
	Limiters []LimiterStatus `json:"limiters"`
	Presets  []string        `json:"presets"`
}
