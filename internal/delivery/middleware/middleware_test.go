package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thalassist/config"
	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generated when absent"},
		{name: "client id reused", header: "mobile-7f3a.42", wantSame: true},
		{name: "client id with spaces replaced", header: "abc def"},
		{name: "oversized client id replaced", header: strings.Repeat("a", maxClientRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newBufferLogger()
			m := NewRequestIDMiddleware(logger)

			req := httptest.NewRequest(http.MethodGet, "/donors/D001", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			var scoped string
			err := m.Process(func(c echo.Context) error {
				scoped = deliverycontext.RequestIDFrom(c.Request().Context())

				return c.NoContent(http.StatusNoContent)
			})(c)
			require.NoError(t, err)

			id := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, scoped)
			assert.Equal(t, id, deliverycontext.RequestIDOf(c))
			if tt.wantSame {
				assert.Equal(t, tt.header, id)
			} else {
				assert.NotEqual(t, tt.header, id)
			}
		})
	}
}

func newChain(t *testing.T, debug bool, h echo.HandlerFunc) (*echo.Echo, *bytes.Buffer, *metrics.Metrics) {
	t.Helper()

	logger, buf := newBufferLogger()
	cfg := &config.Config{}
	cfg.Env.Debug = debug
	m := metrics.New()

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewMetricsMiddleware(m).Handle)
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)
	e.GET("/donors/:id", h)
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	return e, buf, m
}

func TestLoggerMiddleware_LogsFinalStatus(t *testing.T) {
	e, buf, m := newChain(t, false, func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "donor not found")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/donors/D404", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "route=/donors/:id")
	assert.Contains(t, out, "request_id="+rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/donors/:id", "404")))
}

func TestLoggerMiddleware_ProbesOnlyInDebug(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	e, buf, _ := newChain(t, false, ok)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	e, buf, _ = newChain(t, true, ok)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, buf.String(), "route=/health")
}
