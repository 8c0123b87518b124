package http

import (
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/request"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/response"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listSecurityEventsHandler struct {
	logger *logrus.Logger
	reader security.AuditReader
	audit  security.AuditLogger
}

func NewListSecurityEventsHandler(
	logger *logrus.Logger,
	reader security.AuditReader,
	audit security.AuditLogger,
) Handler {
	return &listSecurityEventsHandler{
		logger: logger,
		reader: reader,
		audit:  audit,
	}
}

// Handle @Summary List security events
// @Description Returns recent security events, newest first, with aggregate statistics
// @Tags Security
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of events (default 100, max 1000)"
// @Param type query string false "Event type" Enums(auth_success, auth_failure, rate_limit, suspicious_activity, admin_action)
// @Param severity query string false "Severity" Enums(low, medium, high, critical)
// @Param ip query string false "Source IP"
// @Param userId query string false "User ID"
// @Success 200 {object} response.SecurityEventsResponse "Events"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Router /api/v1/admin/security/events [get]
func (h *listSecurityEventsHandler) Handle(c *fiber.Ctx) error {
	var query request.ListEventsRequest
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid query"})
	}
	filter, err := query.ToFilter()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	h.audit.LogAdminAction(types.NewFiberRequest(c), adminFromContext(c), "list_security_events", "security_events")

	events := h.reader.Query(filter)
	if events == nil {
		events = []security.Event{}
	}
	return c.Status(fiber.StatusOK).JSON(response.SecurityEventsResponse{
		Success: true,
		Events:  events,
		Count:   len(events),
		Stats:   h.reader.GetStats(),
	})
}
