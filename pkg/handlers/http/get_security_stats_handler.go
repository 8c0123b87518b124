package http

import (
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/response"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getSecurityStatsHandler struct {
	logger *logrus.Logger
	reader security.AuditReader
	audit  security.AuditLogger
}

func NewGetSecurityStatsHandler(
	logger *logrus.Logger,
	reader security.AuditReader,
	audit security.AuditLogger,
) Handler {
	return &getSecurityStatsHandler{
		logger: logger,
		reader: reader,
		audit:  audit,
	}
}

// Handle @Summary Security statistics
// @Description Returns event counts by window, type and severity, plus the most active source IPs
// @Tags Security
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SecurityStatsResponse "Statistics"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Router /api/v1/admin/security/stats [get]
func (h *getSecurityStatsHandler) Handle(c *fiber.Ctx) error {
	h.audit.LogAdminAction(types.NewFiberRequest(c), adminFromContext(c), "get_security_stats", "security_stats")
	return c.Status(fiber.StatusOK).JSON(response.SecurityStatsResponse{
		Success: true,
		Stats:   h.reader.GetStats(),
	})
}
