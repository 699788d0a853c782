package middleware

import (
	"time"

	"estate/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics observes request latency by route template.
func Metrics(recorder *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// The error handler has to run first so the status is final.
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			recorder.ObserveHTTP(c.Request().Method, route, c.Response().Status, time.Since(start))

			return nil
		}
	}
}
