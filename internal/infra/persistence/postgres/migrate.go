package postgres

import (
	"context"

	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the accounts and properties tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate postgres schema")
	}

	return nil
}
