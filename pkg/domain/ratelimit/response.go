package ratelimit

import (
	"fmt"
	"strconv"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

type RejectionBody struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// Headers returns the rate limit headers for a decision. Retry-After is only
// present on rejections.
func Headers(d Decision) map[string]string {
	headers := map[string]string{
		HeaderLimit:     strconv.Itoa(d.Limit),
		HeaderRemaining: strconv.Itoa(d.Remaining),
		HeaderReset:     strconv.FormatInt(d.ResetAt.UnixMilli(), 10),
	}
	if !d.Allowed {
		headers[HeaderRemaining] = "0"
		headers[HeaderRetryAfter] = strconv.Itoa(d.RetryAfterSeconds)
	}
	return headers
}

func NewRejectionBody(d Decision) RejectionBody {
	return RejectionBody{
		Success:    false,
		Error:      "Too Many Requests",
		Message:    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", d.RetryAfterSeconds),
		RetryAfter: d.RetryAfterSeconds,
	}
}
