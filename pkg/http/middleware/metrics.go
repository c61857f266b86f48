package middleware

import (
	"strconv"
	"time"

	"github.com/go-funnel/funnel/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware 记录请求量、时延和并发数
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" || c.Path() == "/health" {
			return c.Next()
		}

		metrics.HttpRequestsInFlight.Inc()
		start := time.Now()
		err := c.Next()
		metrics.HttpRequestsInFlight.Dec()

		route := c.Route().Path
		metrics.HttpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		metrics.HttpRequestDurationSeconds.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
