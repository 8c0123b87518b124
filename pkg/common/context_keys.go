package common

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
	UserContextKey      contextKey = "user"
	LatencyContextKey   contextKey = "__execution_time"
)
