package middleware

import (
	"strings"

	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/infra/auth/jwt"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const authorizationHeader = "Authorization"
const bearerScheme = "Bearer"
const bearerPrefix = bearerScheme + " "

type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
	audit      security.AuditLogger
}

func NewAdminAuthMiddleware(
	logger *logrus.Logger,
	jwtManager jwt.Manager,
	audit security.AuditLogger,
) Middleware {
	return &adminAuthMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
		audit:      audit,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := types.NewFiberRequest(ctx)

		authHeader := strings.TrimSpace(ctx.Get(authorizationHeader))
		if authHeader == "" {
			m.logger.Debug("no authorization header provided")
			return m.unauthorized(ctx, req, "missing_authorization", "Authorization required")
		}
		if strings.EqualFold(authHeader, bearerScheme) {
			m.logger.Debug("empty token provided")
			return m.unauthorized(ctx, req, "empty_token", "Empty token provided")
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			m.logger.Debug("invalid authorization header format")
			return m.unauthorized(ctx, req, "invalid_authorization_format", "Invalid authorization format")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			m.logger.Debug("empty token provided")
			return m.unauthorized(ctx, req, "empty_token", "Empty token provided")
		}

		claims, err := m.jwtManager.DecodeToken(tokenString)
		if err != nil {
			m.logger.WithError(err).Debug("invalid token")
			return m.unauthorized(ctx, req, err.Error(), "Invalid token")
		}

		user := claims.User()
		if user.Role != common.AdminRole {
			m.audit.LogSuspiciousActivity(req, "admin_access_without_role", map[string]any{
				"user_id": user.ID,
				"role":    user.Role,
			})
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden",
			})
		}

		ctx.Locals(common.UserContextKey, user)
		return ctx.Next()
	}
}

func (m *adminAuthMiddleware) unauthorized(ctx *fiber.Ctx, req types.Request, reason, message string) error {
	m.audit.LogAuthFailure(req, reason)
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// UserFromContext returns the admin stored by the auth middleware.
func UserFromContext(ctx *fiber.Ctx) (security.User, bool) {
	user, ok := ctx.Locals(common.UserContextKey).(security.User)
	return user, ok
}
