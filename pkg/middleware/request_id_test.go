package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/asca-arts/gatekeeper/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	fixed := uuid.MustParse("2f1c7a4e-5b7d-4f3a-9a53-3b0d3c1f9e11")
	app := fiber.New()
	app.Use(middleware.NewRequestIDMiddleware(func() uuid.UUID { return fixed }).Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		fromCtx, _ := c.UserContext().Value(common.RequestIDContextKey).(string)
		return c.SendString(fromCtx)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fixed.String(), resp.Header.Get(common.RequestIDHeader))

	incoming := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(common.RequestIDHeader, incoming)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, incoming, resp.Header.Get(common.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(common.RequestIDHeader, "<script>")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fixed.String(), resp.Header.Get(common.RequestIDHeader))
}
