package middleware

import (
	"log/slog"
	"time"

	"thalassist/config"
	deliverycontext "thalassist/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// polledPaths are polled by orchestrators and scrapers; they are only logged in debug.
var polledPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// LoggerMiddleware writes one access-log line per request.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle runs the handler, lets the error handler write the response and
// then logs the status the client actually received.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		if _, polled := polledPaths[c.Path()]; polled && !m.debug && err == nil {
			return nil
		}
		m.logRequest(c, start, err)

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, err error) {
	req := c.Request()
	res := c.Response()

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("route", c.Path()),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Int64("bytes_out", res.Size),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
	}
	if m.debug {
		attrs = append(attrs, slog.String("user_agent", req.UserAgent()))
		if req.URL.RawQuery != "" {
			attrs = append(attrs, slog.String("query", req.URL.RawQuery))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}

	level := slog.LevelInfo
	switch {
	case res.Status >= 500:
		level = slog.LevelError
	case res.Status >= 400:
		level = slog.LevelWarn
	}

	// The scoped logger already carries request_id and, once authenticated,
	// account_id.
	logger := deliverycontext.LoggerFrom(req.Context(), m.logger)
	if deliverycontext.RequestIDFrom(req.Context()) == "" {
		attrs = append(attrs, slog.String("request_id", deliverycontext.RequestIDOf(c)))
	}
	logger.LogAttrs(req.Context(), level, "HTTP Request", attrs...)
}
