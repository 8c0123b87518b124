package middleware

import (
	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/asca-arts/gatekeeper/pkg/utils"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type botGuardMiddleware struct {
	logger *logrus.Logger
	audit  security.AuditLogger
}

// NewBotGuardMiddleware records requests from missing, bot or unrecognised
// user agents as suspicious activity. It never blocks.
func NewBotGuardMiddleware(logger *logrus.Logger, audit security.AuditLogger) Middleware {
	return &botGuardMiddleware{
		logger: logger,
		audit:  audit,
	}
}

func (m *botGuardMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ua := fiberutils.CopyString(c.Get(common.UserAgentHeader))
		if activity := utils.ClassifyUserAgent(ua); activity != "" {
			m.logger.WithFields(logrus.Fields{
				"activity":   activity,
				"user_agent": ua,
				"path":       c.Path(),
			}).Debug("suspicious user agent")
			m.audit.LogSuspiciousActivity(types.NewFiberRequest(c), activity, map[string]any{
				"user_agent": ua,
			})
		}
		return c.Next()
	}
}
