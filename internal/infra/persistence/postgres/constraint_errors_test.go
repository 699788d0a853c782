package postgres

import (
	"testing"

	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateCreateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"translated duplicate", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), repository.ErrAccountAlreadyExists},
		{"raw unique violation", errors.New(`duplicate key value violates unique constraint "idx_accounts_email" (SQLSTATE 23505)`), repository.ErrAccountAlreadyExists},
		{"translated foreign key", gorm.ErrForeignKeyViolated, repository.ErrAccountNotFound},
		{"raw foreign key violation", errors.New("insert or update on table \"properties\" violates foreign key constraint (SQLSTATE 23503)"), repository.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateCreateError(tt.err, "create"), tt.want)
		})
	}
}

func TestTranslateCreateError_Other(t *testing.T) {
	err := translateCreateError(errors.New("connection refused"), "failed to create account")

	var appErr domainerrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.Equal(t, "failed to create account", appErr.Details())
}
