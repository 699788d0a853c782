package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorMiddleware(env string) *ErrorMiddleware {
	cfg := &config.Config{}
	cfg.Env.Env = env

	return NewErrorMiddleware(ErrorMiddlewareParams{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func handleError(t *testing.T, m *ErrorMiddleware, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anything", nil), rec)
	c.Response().Header().Set(deliverycontext.HeaderXRequestID, "req-123")

	m.HandleHTTPError(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandleHTTPError_AppErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"wrapped forbidden", errors.Wrap(domainerrors.ErrForbidden, "role user"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", domainerrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"revoked", errors.WithStack(domainerrors.ErrRevoked), http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"echo 405", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "NOT_FOUND"},
		{"echo 413", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := handleError(t, newErrorMiddleware("production"), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, body["code"])
			assert.Equal(t, "req-123", body["requestId"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestHandleHTTPError_FieldErrors(t *testing.T) {
	err := domainerrors.NewValidationError([]domainerrors.FieldError{{Field: "email", Message: "email is required"}})

	rec, body := handleError(t, newErrorMiddleware("production"), errors.Wrap(err, "bind signup"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{map[string]any{"field": "email", "message": "email is required"}}, body["errors"])
}

func TestHandleHTTPError_RetryAfterRoundsUp(t *testing.T) {
	rec, body := handleError(t, newErrorMiddleware("production"), domainerrors.NewRateLimitedError(1500*time.Millisecond))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestHandleHTTPError_StackOnlyOutsideProduction(t *testing.T) {
	boom := errors.New("connection reset")

	rec, body := handleError(t, newErrorMiddleware("development"), boom)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Contains(t, body["stack"], "connection reset")
	assert.NotContains(t, body["message"], "connection reset")

	_, body = handleError(t, newErrorMiddleware("production"), boom)
	assert.NotContains(t, body, "stack")

	_, body = handleError(t, newErrorMiddleware("production"), domainerrors.NewDatabaseExecuteError(boom, "insert"))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", body["code"])
	assert.NotContains(t, body, "stack")
}

func TestHandleHTTPError_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	newErrorMiddleware("production").HandleHTTPError(domainerrors.ErrNotFound, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
