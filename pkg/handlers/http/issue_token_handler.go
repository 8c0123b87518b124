package http

import (
	"errors"

	"github.com/asca-arts/gatekeeper/pkg/app/admin"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/request"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/response"
	"github.com/asca-arts/gatekeeper/pkg/infra/auth/jwt"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type issueTokenHandler struct {
	logger        *logrus.Logger
	authenticator admin.Authenticator
	jwtManager    jwt.Manager
	audit         security.AuditLogger
	expiresIn     int
}

func NewIssueTokenHandler(
	logger *logrus.Logger,
	authenticator admin.Authenticator,
	jwtManager jwt.Manager,
	audit security.AuditLogger,
	expiresInSeconds int,
) Handler {
	return &issueTokenHandler{
		logger:        logger,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		audit:         audit,
		expiresIn:     expiresInSeconds,
	}
}

// Handle @Summary Issue an admin token
// @Description Verifies admin credentials and returns a signed bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.IssueTokenRequest true "Admin credentials"
// @Success 200 {object} response.TokenResponse "Token issued"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 429 {object} ratelimit.RejectionBody "Too many attempts"
// @Router /api/v1/auth/token [post]
func (h *issueTokenHandler) Handle(c *fiber.Ctx) error {
	req := types.NewFiberRequest(c)

	var body request.IssueTokenRequest
	if err := c.BodyParser(&body); err != nil {
		h.audit.LogAuthFailure(req, "malformed_request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := body.Validate(); err != nil {
		h.audit.LogAuthFailure(req, "incomplete_credentials")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.authenticator.Authenticate(body.Email, body.Password)
	if err != nil {
		if !errors.Is(err, admin.ErrInvalidCredentials) {
			h.logger.WithError(err).Error("failed to verify admin credentials")
		}
		h.audit.LogAuthFailure(req, "invalid_credentials")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := h.jwtManager.CreateToken(user)
	if err != nil {
		h.logger.WithError(err).Error("failed to sign admin token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	h.audit.LogAuthSuccess(req, user)
	return c.Status(fiber.StatusOK).JSON(response.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.expiresIn,
	})
}
