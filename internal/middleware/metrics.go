package middleware

import (
	"net/http"
	"time"

	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latencies per route.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Observe labels requests by route template. Not-found requests share the
// "unmatched" route.
func (mm *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if mm.metrics == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := responseStatus(c.Response().Status, err)

			route := c.Path()
			if route == "" || status == http.StatusNotFound {
				route = "unmatched"
			}
			mm.metrics.ObserveHTTPRequest(c.Request().Method, route, status, time.Since(start))

			return err
		}
	}
}
