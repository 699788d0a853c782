// Package response writes the JSON envelopes shared by every API handler.
package response

import (
	deliverycontext "estate/internal/delivery/context"
	domainerrors "estate/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Message   string                    `json:"message"`
	Code      string                    `json:"code"`
	Errors    []domainerrors.FieldError `json:"errors,omitempty"`
	RequestID string                    `json:"requestId"`
	Stack     string                    `json:"stack,omitempty"` // Only for 500s outside production.
}

// Success writes {message, ...data}. Keys in data sit next to message at the top level.
func Success(c echo.Context, statusCode int, message string, data map[string]any) error {
	body := make(map[string]any, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["message"] = message

	return c.JSON(statusCode, body)
}

// Message writes an envelope that carries only a message.
func Message(c echo.Context, statusCode int, message string) error {
	return Success(c, statusCode, message, nil)
}

// Error writes the failure envelope. Field errors are dropped for 401, 403 and 5xx.
func Error(c echo.Context, statusCode int, body ErrorResponse) error {
	if statusCode >= 500 || statusCode == 401 || statusCode == 403 {
		body.Errors = nil
	}
	body.RequestID = deliverycontext.GetRequestID(c)

	return c.JSON(statusCode, body)
}
