package ratelimit

import (
	"context"

	"github.com/asca-arts/gatekeeper/pkg/types"
)

// Checker is what request pipelines depend on to admit or reject a request.
type Checker interface {
	Name() string
	Config() Config
	Check(ctx context.Context, req types.Request) (Decision, error)
}
