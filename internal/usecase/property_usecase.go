package usecase

import (
	"context"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// PropertyUsecase is the agent-facing listing surface plus the public read side.
type PropertyUsecase interface {
	Create(ctx context.Context, agentID uuid.UUID, details entity.PropertyDetails) (*entity.Property, error)
	Update(ctx context.Context, agentID, propertyID uuid.UUID, details entity.PropertyDetails) (*entity.Property, error)
	ListMine(ctx context.Context, agentID uuid.UUID) ([]*entity.Property, error)

	// Get and ShareQR only expose approved listings.
	Get(ctx context.Context, propertyID uuid.UUID) (*entity.Property, error)
	ShareQR(ctx context.Context, propertyID uuid.UUID) ([]byte, error)
}
