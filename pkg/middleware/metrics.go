package middleware

import (
	"fmt"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/common"
	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger   *logrus.Logger
	taskChan chan func()
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	m := &metricsMiddleware{
		logger:   logger,
		taskChan: make(chan func(), 1000),
	}
	m.startWorkers(2)
	return m
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		c.Locals(common.LatencyContextKey, startTime)

		err := c.Next()

		elapsed := time.Since(startTime)
		method := utils.CopyString(c.Method())
		route := c.Route().Path
		status := c.Response().StatusCode()

		m.enqueueTask(func() {
			prometheus.RequestTotal.WithLabelValues(method, route, statusClass(status)).Inc()
			prometheus.RequestLatency.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
		})
		return err
	}
}

func (m *metricsMiddleware) startWorkers(n int) {
	for i := 0; i < n; i++ {
		go func() {
			for task := range m.taskChan {
				task()
			}
		}()
	}
}

func (m *metricsMiddleware) enqueueTask(task func()) {
	select {
	case m.taskChan <- task:
	default:
		m.logger.Warn("metrics task queue full, dropping task")
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
