package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"estate/config"
	"estate/internal/delivery/api/response"
	deliverycontext "estate/internal/delivery/context"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ErrorMiddlewareParams holds dependencies for ErrorMiddleware, injected by Fx.
type ErrorMiddlewareParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// ErrorMiddleware turns every handler error into the failure envelope.
type ErrorMiddleware struct {
	logger      *slog.Logger
	exposeStack bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(params ErrorMiddlewareParams) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:      params.Logger,
		exposeStack: !params.Config.IsProduction(),
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var rateErr *domainerrors.RateLimitedError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		seconds := int(math.Ceil(rateErr.RetryAfter.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPCode()
		body := response.ErrorResponse{
			Message: appErr.Message(),
			Code:    appErr.ErrorCode(),
		}
		if fields, ok := appErr.Details().([]domainerrors.FieldError); ok {
			body.Errors = fields
		}
		if status >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
			body.Stack = m.stack(err)
		}

		_ = response.Error(c, status, body)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
		}

		_ = response.Error(c, httpErr.Code, response.ErrorResponse{
			Message: message,
			Code:    httpErrorCode(httpErr.Code),
		})

		return
	}

	m.logUnhandled(c, err)

	_ = response.Error(c, http.StatusInternalServerError, response.ErrorResponse{
		Message: domainerrors.ErrInternalError.Message(),
		Code:    domainerrors.ErrInternalError.ErrorCode(),
		Stack:   m.stack(err),
	})
}

func (m *ErrorMiddleware) logUnhandled(c echo.Context, err error) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}

// stack renders the pkg/errors trace when stacks are exposed.
func (m *ErrorMiddleware) stack(err error) string {
	if !m.exposeStack {
		return ""
	}

	return fmt.Sprintf("%+v", err)
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domainerrors.ErrValidationFailed.ErrorCode()
	case http.StatusUnauthorized:
		return domainerrors.ErrUnauthenticated.ErrorCode()
	case http.StatusForbidden:
		return domainerrors.ErrForbidden.ErrorCode()
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domainerrors.ErrNotFound.ErrorCode()
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return domainerrors.ErrRateLimited.ErrorCode()
	default:
		return "HTTP_ERROR"
	}
}
