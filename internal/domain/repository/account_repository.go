// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists is returned when the email is already taken.
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrModerationConflict is returned when the stored approval flag no longer
	// matches the value the caller read, meaning another moderator got there first.
	ErrModerationConflict = errors.New("moderation state changed concurrently")
)

// AccountRepository is the credential store.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account and fills in its ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error

	// ListByRole returns accounts of the role, optionally narrowed to a moderation state.
	ListByRole(ctx context.Context, role entity.Role, state *entity.ModerationState) ([]*entity.Account, error)

	// UpdateModeration stores next only if the approval flag still equals prev.IsApproved.
	UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error
}
