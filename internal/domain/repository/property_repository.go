package repository

import (
	"context"
	"errors"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPropertyNotFound is returned when no listing matches the lookup.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyFilter narrows property listings. Nil fields are ignored.
type PropertyFilter struct {
	AgentID *uuid.UUID
	State   *entity.ModerationState
}

// PropertyRepository is the listing store.
type PropertyRepository interface {
	// FindByID retrieves a single listing.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)

	// Create persists a new listing and fills in its ID and timestamps.
	Create(ctx context.Context, property *entity.Property) error

	// Update stores the listing content together with its moderation fields.
	Update(ctx context.Context, property *entity.Property) error

	// List returns listings matching the filter, newest first.
	List(ctx context.Context, filter PropertyFilter) ([]*entity.Property, error)

	// UpdateModeration stores next only if the approval flag still equals prev.IsApproved.
	UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error
}
