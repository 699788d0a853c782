package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// sensitiveParams are path parameters that carry one-time secrets.
var sensitiveParams = map[string]bool{"token": true}

// LoggerMiddleware writes one access log line per request when debug is on.
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

// Handle resolves handler errors through the error handler so the logged status is final.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		if m.debug {
			m.logRequest(c, time.Since(start), err)
		}

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, latency time.Duration, err error) {
	req := c.Request()
	status := c.Response().Status

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("uri", redactedPath(c)),
		slog.String("route", c.Path()),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}

	ctx := req.Context()
	deliverycontext.GetLoggerOrDefault(ctx, m.logger).LogAttrs(ctx, statusLevel(status), "HTTP request", attrs...)
}

// redactedPath is the request path with sensitive parameter values masked.
// The query string is never logged.
func redactedPath(c echo.Context) string {
	path := c.Request().URL.Path

	for i, name := range c.ParamNames() {
		if !sensitiveParams[name] || i >= len(c.ParamValues()) {
			continue
		}
		if value := c.ParamValues()[i]; value != "" {
			path = strings.Replace(path, value, "***", 1)
		}
	}

	return path
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
