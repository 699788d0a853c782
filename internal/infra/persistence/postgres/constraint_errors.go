package postgres

import (
	"strings"

	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"

	"gorm.io/gorm"
)

// SQLSTATE codes seen when gorm's TranslateError is off.
const (
	sqlStateUniqueViolation     = "SQLSTATE 23505"
	sqlStateForeignKeyViolation = "SQLSTATE 23503"
)

// translateCreateError maps insert failures to repository sentinels.
// A duplicate email becomes ErrAccountAlreadyExists; a listing whose agent
// row is gone becomes ErrAccountNotFound.
func translateCreateError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), sqlStateUniqueViolation):
		return repository.ErrAccountAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), sqlStateForeignKeyViolation):
		return repository.ErrAccountNotFound
	default:
		return domainerrors.NewDatabaseExecuteError(err, op)
	}
}
