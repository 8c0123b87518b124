package common

const (
	RequestIDHeader = "X-Request-Id"
	UserAgentHeader = "User-Agent"

	AdminRole = "admin"
)
