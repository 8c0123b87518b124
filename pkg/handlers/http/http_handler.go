package http

import (
	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/gofiber/fiber/v2"
)

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Auth
	IssueTokenHandler Handler

	// Security
	ListSecurityEventsHandler Handler
	GetSecurityStatsHandler   Handler

	// Rate limit
	GetRateLimitStatusHandler Handler

	// Version
	GetVersionHandler Handler
}

func adminFromContext(c *fiber.Ctx) security.User {
	user, _ := c.Locals(common.UserContextKey).(security.User)
	return user
}
