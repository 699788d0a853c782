package usecase

import (
	"context"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// ModerationUsecase is the admin review workflow for agents and listings.
// A nil state lists every entity regardless of review state.
type ModerationUsecase interface {
	ApproveAgent(ctx context.Context, adminID, agentID uuid.UUID) (*entity.Account, error)
	RejectAgent(ctx context.Context, adminID, agentID uuid.UUID, reason string) (*entity.Account, error)
	ListAgents(ctx context.Context, state *entity.ModerationState) ([]*entity.Account, error)

	ApproveProperty(ctx context.Context, adminID, propertyID uuid.UUID) (*entity.Property, error)
	RejectProperty(ctx context.Context, adminID, propertyID uuid.UUID, reason string) (*entity.Property, error)
	ListProperties(ctx context.Context, state *entity.ModerationState) ([]*entity.Property, error)
}
