package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latencies labelled by the matched
// route pattern, not the raw path.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not written the response yet
			status = apperr.KindOf(err).Status()
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
