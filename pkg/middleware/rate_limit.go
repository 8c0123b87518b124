package middleware

import (
	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type rateLimitMiddleware struct {
	logger  *logrus.Logger
	checker ratelimit.Checker
	audit   security.AuditLogger
}

func NewRateLimitMiddleware(
	logger *logrus.Logger,
	checker ratelimit.Checker,
	audit security.AuditLogger,
) Middleware {
	return &rateLimitMiddleware{
		logger:  logger,
		checker: checker,
		audit:   audit,
	}
}

// Middleware sets the rate limit headers on every response and answers 429
// once the client is over quota. Store failures let the request through.
func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := types.NewFiberRequest(c)
		decision, err := m.checker.Check(c.UserContext(), req)
		if err != nil {
			m.logger.WithError(err).
				WithField("limiter", m.checker.Name()).
				Error("rate limit check failed, allowing request")
			return c.Next()
		}

		for key, value := range ratelimit.Headers(decision) {
			c.Set(key, value)
		}

		if !decision.Allowed {
			m.audit.LogRateLimit(req, decision.Count, decision.Limit)
			return c.Status(fiber.StatusTooManyRequests).JSON(ratelimit.NewRejectionBody(decision))
		}
		return c.Next()
	}
}
