package clientip

import (
	"strings"

	"github.com/asca-arts/gatekeeper/pkg/types"
)

const (
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRealIP         = "X-Real-IP"

	Unknown = "unknown"
)

// Extract resolves the client address. The order is fixed: CDN header,
// first X-Forwarded-For hop, X-Real-IP, peer address, then "unknown".
func Extract(req types.Request) string {
	if req == nil {
		return Unknown
	}
	if ip := strings.TrimSpace(req.Header(HeaderCFConnectingIP)); ip != "" {
		return ip
	}
	if ip := firstForwarded(req.Header(HeaderForwardedFor)); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(req.Header(HeaderRealIP)); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(req.RemoteIP()); ip != "" {
		return ip
	}
	return Unknown
}

func firstForwarded(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}
