package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware Middleware
	RequestIDMiddleware    Middleware
	MetricsMiddleware      Middleware
	BotGuardMiddleware     Middleware
	SecurityMiddleware     Middleware
	AdminAuthMiddleware    Middleware
	APIRateLimit           Middleware
	AdminRateLimit         Middleware
	AuthRateLimit          Middleware
}
