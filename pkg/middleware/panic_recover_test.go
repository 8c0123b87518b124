package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asca-arts/gatekeeper/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecover(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.NewPanicRecoverMiddleware(log).Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		panic("store exploded: password=hunter2")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "hunter2")
	assert.Contains(t, string(body), "Internal server error")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "HTTP server panic recovered", hook.LastEntry().Message)
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewSecurityMiddleware(middleware.DefaultSecurityHeadersConfig()).Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, resp.Header.Get("Strict-Transport-Security"), "max-age=31536000")
}
