package handler

import (
	"strings"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithMessage("Malformed request body"), err.Error())
	}

	return c.Validate(req)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: name, Message: name + " must be a valid UUID"},
		})
	}

	return id, nil
}

// stateFilter parses ?status=. An empty value means no filter.
func stateFilter(c echo.Context) (*entity.ModerationState, error) {
	raw := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if raw == "" {
		return nil, nil
	}

	state := entity.ModerationState(raw)
	if !state.IsValid() {
		return nil, domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "status", Message: "status must be one of pending, approved, rejected"},
		})
	}

	return &state, nil
}
