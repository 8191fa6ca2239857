package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/application/metric"
)

// PrometheusMiddleware records request counters and latency per route.
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			metric.RecordHTTPMetrics(
				c.Request().Method,
				c.Path(),
				c.Response().Status,
				time.Since(start),
			)

			return err
		}
	}
}
