package http

import (
	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/response"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LimiterInfo is the read-only view of a configured limiter.
type LimiterInfo interface {
	Name() string
	Config() ratelimit.Config
	Len() int
}

type getRateLimitStatusHandler struct {
	logger   *logrus.Logger
	limiters []LimiterInfo
	audit    security.AuditLogger
}

func NewGetRateLimitStatusHandler(
	logger *logrus.Logger,
	audit security.AuditLogger,
	limiters ...LimiterInfo,
) Handler {
	return &getRateLimitStatusHandler{
		logger:   logger,
		limiters: limiters,
		audit:    audit,
	}
}

// Handle @Summary Rate limiter status
// @Description Returns each limiter's window configuration and the number of live client keys
// @Tags RateLimit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.RateLimitStatusResponse "Limiter status"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Router /api/v1/admin/ratelimit [get]
func (h *getRateLimitStatusHandler) Handle(c *fiber.Ctx) error {
	h.audit.LogAdminAction(types.NewFiberRequest(c), adminFromContext(c), "get_ratelimit_status", "rate_limiters")

	statuses := make([]response.LimiterStatus, 0, len(h.limiters))
	for _, l := range h.limiters {
		cfg := l.Config()
		statuses = append(statuses, response.LimiterStatus{
			Name:        l.Name(),
			MaxRequests: cfg.MaxRequests,
			WindowMs:    cfg.Window.Milliseconds(),
			LiveKeys:    l.Len(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(response.RateLimitStatusResponse{
		Success:  true,
		Limiters: statuses,
		Presets:  ratelimit.PresetNames(),
	})
}
