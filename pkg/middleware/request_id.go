package middleware

import (
	"context"

	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

type requestIDMiddleware struct {
	uuidProvider func() uuid.UUID
}

func NewRequestIDMiddleware(uuidProvider func() uuid.UUID) Middleware {
	if uuidProvider == nil {
		uuidProvider = uuid.New
	}
	return &requestIDMiddleware{uuidProvider: uuidProvider}
}

// Middleware keeps a well-formed incoming X-Request-Id and mints one otherwise.
func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := utils.CopyString(ctx.Get(common.RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = m.uuidProvider().String()
		}
		ctx.Locals(common.RequestIDContextKey, id)
		ctx.Set(common.RequestIDHeader, id)

		c := context.WithValue(ctx.UserContext(), common.RequestIDContextKey, id)
		ctx.SetUserContext(c)
		return ctx.Next()
	}
}
