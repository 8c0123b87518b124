package router

import (
	"errors"

	handlers "github.com/asca-arts/gatekeeper/pkg/handlers/http"
	"github.com/asca-arts/gatekeeper/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var (
	ErrInvalidHandlerTransport    = errors.New("invalid handler transport")
	ErrInvalidMiddlewareTransport = errors.New("invalid middleware transport")
)

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
	swaggerURL          string
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
	swaggerURL string,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerURL:          swaggerURL,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	m := r.middlewareTransport
	if m == nil || m.PanicRecoverMiddleware == nil || m.RequestIDMiddleware == nil ||
		m.MetricsMiddleware == nil || m.BotGuardMiddleware == nil || m.SecurityMiddleware == nil ||
		m.AdminAuthMiddleware == nil || m.APIRateLimit == nil || m.AdminRateLimit == nil ||
		m.AuthRateLimit == nil {
		return ErrInvalidMiddlewareTransport
	}
	h := r.handlerTransport
	if h == nil || h.IssueTokenHandler == nil || h.ListSecurityEventsHandler == nil ||
		h.GetSecurityStatsHandler == nil || h.GetRateLimitStatusHandler == nil ||
		h.GetVersionHandler == nil {
		return ErrInvalidHandlerTransport
	}

	router.Use(
		m.PanicRecoverMiddleware.Middleware(),
		m.RequestIDMiddleware.Middleware(),
		m.MetricsMiddleware.Middleware(),
	)

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: r.swaggerURL,
	}))

	router.Get("/version", h.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1",
		m.SecurityMiddleware.Middleware(),
		m.APIRateLimit.Middleware(),
		m.BotGuardMiddleware.Middleware(),
	)
	{
		auth := v1.Group("/auth", m.AuthRateLimit.Middleware())
		{
			auth.Post("/token", h.IssueTokenHandler.Handle)
		}

		admin := v1.Group("/admin",
			m.AdminRateLimit.Middleware(),
			m.AdminAuthMiddleware.Middleware(),
		)
		{
			securityGroup := admin.Group("/security")
			{
				securityGroup.Get("/events", h.ListSecurityEventsHandler.Handle)
				securityGroup.Get("/stats", h.GetSecurityStatsHandler.Handle)
			}
			admin.Get("/ratelimit", h.GetRateLimitStatusHandler.Handle)
		}
	}
	return nil
}
