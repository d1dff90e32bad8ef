package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/pkg/metrics"
)

// Metrics - счётчики и латентность запросов по шаблону маршрута
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.InFlight(1)
		defer m.InFlight(-1)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		// шаблон, а не фактический путь: /bookings/:id вместо id
		route := c.Route().Path
		m.ObserveHTTP(c.Method(), route, strconv.Itoa(status), time.Since(start).Seconds())

		return err
	}
}
