package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/app/admin"
	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/dependency_container"
	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/handlers/http/response"
	"github.com/asca-arts/gatekeeper/pkg/infra/logger"
	"github.com/asca-arts/gatekeeper/pkg/server"
	"github.com/asca-arts/gatekeeper/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "ops@example.com"
	adminPassword = "correct horse battery"
	browserUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) (*server.BaseServer, *dependency_container.Container) {
	t.Helper()
	hash, err := admin.HashPassword(adminPassword)
	require.NoError(t, err)

	cfg := &config.Config{Admin: config.AdminConfig{
		SecretKey: "test-secret",
		Users: []config.AdminUser{
			{ID: "admin-1", Email: adminEmail, Role: "admin", PasswordHash: hash},
			{ID: "viewer-1", Email: "viewer@example.com", Role: "viewer", PasswordHash: hash},
		},
	}}
	config.SetDefaultValues(cfg)
	if mutate != nil {
		mutate(cfg)
	}

	c, err := dependency_container.NewContainer(dependency_container.ContainerDI{Cfg: cfg, Logger: logger.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s, err := server.NewBaseServer(cfg, logger.Discard()).WithRouters(
		router.NewAPIRouter(c.MiddlewareTransport, c.HandlerTransport, "/swagger.json"),
	)
	require.NoError(t, err)
	return s, c
}

func request(method, path, ip, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("User-Agent", browserUA)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func issueToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + adminPassword + `"}`
	resp, err := app.Test(request(http.MethodPost, "/api/v1/auth/token", "198.51.100.7", body), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out response.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	for _, path := range []string{server.HealthPath, server.AdminHealthPath} {
		resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestAdminFlow(t *testing.T) {
	s, c := newTestServer(t, nil)
	token := issueToken(t, s.Router, adminEmail)

	versionResp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, "/version", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, versionResp.Header.Get("X-Request-Id"))

	req := request(http.MethodGet, "/api/v1/admin/security/events?type=auth_success", "198.51.100.7", "")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.Router.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "10", resp.Header.Get(ratelimit.HeaderLimit))

	var out response.SecurityEventsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Events, 1)
	assert.Equal(t, "198.51.100.7", out.Events[0].Source.IP)
	assert.Equal(t, "admin-1", out.Events[0].User.ID)

	admins := c.AuditLog.GetEventsByType(security.EventAdminAction, 10)
	require.Len(t, admins, 1)
	assert.Equal(t, "list_security_events", admins[0].Details["action"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s, c := newTestServer(t, nil)

	resp, err := s.Router.Test(request(http.MethodGet, "/api/v1/admin/security/stats", "203.0.113.5", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	failures := c.AuditLog.GetEventsByType(security.EventAuthFailure, 10)
	require.Len(t, failures, 1)
	assert.Equal(t, "missing_authorization", failures[0].Details["reason"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s, c := newTestServer(t, nil)
	token := issueToken(t, s.Router, "viewer@example.com")

	req := request(http.MethodGet, "/api/v1/admin/ratelimit", "203.0.113.9", "")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.Router.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Len(t, c.AuditLog.GetEventsByType(security.EventSuspiciousActivity, 10), 1)
}

func TestAuthEndpointIsThrottled(t *testing.T) {
	s, c := newTestServer(t, nil)
	body := `{"email":"` + adminEmail + `","password":"wrong"}`

	for i := 0; i < 5; i++ {
		resp, err := s.Router.Test(request(http.MethodPost, "/api/v1/auth/token", "192.0.2.44", body), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	resp, err := s.Router.Test(request(http.MethodPost, "/api/v1/auth/token", "192.0.2.44", body), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get(ratelimit.HeaderRemaining))
	assert.NotEmpty(t, resp.Header.Get(ratelimit.HeaderRetryAfter))

	var rejection ratelimit.RejectionBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rejection))
	assert.False(t, rejection.Success)
	assert.Equal(t, "Too Many Requests", rejection.Error)
	assert.LessOrEqual(t, rejection.RetryAfter, 900)

	limited := c.AuditLog.GetEventsByType(security.EventRateLimit, 10)
	require.Len(t, limited, 1)
	assert.Equal(t, security.SeverityMedium, limited[0].Severity)

	// another client keeps its own budget
	resp, err = s.Router.Test(request(http.MethodPost, "/api/v1/auth/token", "192.0.2.45", body), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBotUserAgentIsFlagged(t *testing.T) {
	s, c := newTestServer(t, nil)

	req := request(http.MethodGet, "/api/v1/admin/security/stats", "203.0.113.20", "")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	resp, err := s.Router.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	suspicious := c.AuditLog.GetEventsByType(security.EventSuspiciousActivity, 10)
	require.Len(t, suspicious, 1)
	assert.Equal(t, "bot_user_agent", suspicious[0].Details["activity"])
}

func TestThrottledBotIsNotFlagged(t *testing.T) {
	s, c := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Policies[config.PolicyAPI] = config.PolicyConfig{MaxRequests: 1, Window: time.Minute}
	})

	for i := 0; i < 3; i++ {
		req := request(http.MethodGet, "/api/v1/admin/security/stats", "203.0.113.21", "")
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
		_, err := s.Router.Test(req, -1)
		require.NoError(t, err)
	}

	assert.Len(t, c.AuditLog.GetEventsByType(security.EventSuspiciousActivity, 10), 1)
	assert.Len(t, c.AuditLog.GetEventsByType(security.EventRateLimit, 10), 2)
}

func TestVersion(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, "/version", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsApp(t *testing.T) {
	s, _ := newTestServer(t, nil)

	_, err := s.Router.Test(request(http.MethodGet, "/api/v1/admin/security/stats", "203.0.113.30", ""), -1)
	require.NoError(t, err)

	resp, err := s.MetricsApp().Test(httptest.NewRequest(http.MethodGet, server.MetricsPath, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gatekeeper_ratelimit_decisions_total")
	assert.Contains(t, string(body), "gatekeeper_audit_sink_dropped_total")
}

func TestWithRouters_RejectsIncompleteTransport(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaultValues(cfg)

	_, err := server.NewBaseServer(cfg, logger.Discard()).WithRouters(router.NewAPIRouter(nil, nil, ""))
	assert.ErrorIs(t, err, router.ErrInvalidMiddlewareTransport)
}
