package middleware

import (
	"strconv"
	"time"

	"thalassist/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency per matched route
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Handle observes the request after the handler and the error handler ran
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler write the response so the real status is recorded.
			c.Error(err)
		}

		// Unmatched paths share one label to keep cardinality bounded.
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		status := strconv.Itoa(c.Response().Status)

		m.metrics.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return nil
	}
}
