package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/config"
	infraPrometheus "github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/asca-arts/gatekeeper/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	HealthPath      = "/health"
	AdminHealthPath = "/__/health"
	MetricsPath     = "/metrics"
)

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Router      *fiber.App
	metricsApp  *fiber.App
	metricsOnce sync.Once
}

func NewBaseServer(config *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		Network:               fiber.NetworkTCP,
		EnablePrintRoutes:     false,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	r.Server().NoDefaultServerHeader = true

	server := &BaseServer{
		Config: config,
		Logger: logger,
		Router: r,
	}
	server.setupHealthCheck()
	return server
}

// setupHealthCheck adds a health check endpoint to the server
func (s *BaseServer) setupHealthCheck() {
	s.Router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	s.Router.Get(AdminHealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) (*BaseServer, error) {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
			return nil, fmt.Errorf("failed to build routes: %w", err)
		}
	}
	return s, nil
}

// MetricsApp returns the fiber app serving prometheus metrics.
func (s *BaseServer) MetricsApp() *fiber.App {
	s.metricsOnce.Do(func() {
		metricsApp := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})
		metricsApp.Use(recover.New())

		handler := fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(infraPrometheus.Gatherer(), promhttp.HandlerOpts{}),
		)
		metricsApp.Get(MetricsPath, func(c *fiber.Ctx) error {
			handler(c.Context())
			return nil
		})
		s.metricsApp = metricsApp
	})
	return s.metricsApp
}

func (s *BaseServer) setupMetricsEndpoint() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	metricsApp := s.MetricsApp()

	// Start metrics server on a different port
	go func() {
		addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.MetricsPort)
		s.Logger.WithField("addr", addr).Info("starting metrics server")
		if err := metricsApp.Listen(addr); err != nil {
			if !strings.Contains(err.Error(), "address already in use") {
				s.Logger.WithError(err).Error("failed to start metrics server")
			}
		}
	}()
}

// Run starts the metrics listener, if enabled, and blocks serving the API.
func (s *BaseServer) Run() error {
	s.setupMetricsEndpoint()
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting gatekeeper server")
	return s.Router.Listen(addr)
}

func (s *BaseServer) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.Router.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api server: %w", err))
	}
	if s.metricsApp != nil {
		if err := s.metricsApp.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	return errors.Join(errs...)
}
