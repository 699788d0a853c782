package impl

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingDetails(title string) entity.PropertyDetails {
	return entity.PropertyDetails{
		Title:        title,
		Description:  "Corner unit",
		Address:      "4 Hill St",
		City:         "Pune",
		PropertyType: entity.PropertyHouse,
		ListingType:  entity.ListingRent,
		Price:        45000,
		Bedrooms:     3,
		Bathrooms:    2,
		AreaSqFt:     1800,
	}
}

func TestPropertyService_CreateStartsPending(t *testing.T) {
	f := newFixtures(t)
	agent := f.seedAccount(t, "agent@x.com", entity.RoleAgent, true)

	property, err := f.listings.Create(context.Background(), agent.ID, listingDetails("Hill house"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, property.ID)
	assert.Equal(t, agent.ID, property.AgentID)
	assert.Equal(t, entity.ModerationPending, property.Moderation.State())

	mine, err := f.listings.ListMine(context.Background(), agent.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Hill house", mine[0].Title)
}

func TestPropertyService_EditResetsModeration(t *testing.T) {
	tests := []struct {
		name       string
		moderation entity.Moderation
	}{
		{"approved listing", approvedModeration(testStart)},
		{"rejected listing", entity.Moderation{RejectionReason: "Blurry photos"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)
			agent := f.seedAccount(t, "agent@x.com", entity.RoleAgent, true)
			property := f.seedProperty(t, agent.ID, tt.moderation)

			updated, err := f.listings.Update(context.Background(), agent.ID, property.ID, listingDetails("Renamed"))
			require.NoError(t, err)
			assert.Equal(t, entity.ModerationPending, updated.Moderation.State())
			assert.Empty(t, updated.Moderation.RejectionReason)

			stored, err := f.properties.FindByID(context.Background(), property.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", stored.Title)
			assert.False(t, stored.Moderation.IsApproved)
		})
	}
}

func TestPropertyService_UpdateByOtherAgentIsForbidden(t *testing.T) {
	f := newFixtures(t)
	owner := f.seedAccount(t, "owner@x.com", entity.RoleAgent, true)
	other := f.seedAccount(t, "other@x.com", entity.RoleAgent, true)
	property := f.seedProperty(t, owner.ID, approvedModeration(testStart))

	_, err := f.listings.Update(context.Background(), other.ID, property.ID, listingDetails("Hijacked"))
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	stored, err := f.properties.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sea view flat", stored.Title)
	assert.True(t, stored.Moderation.IsApproved)

	_, err = f.listings.Update(context.Background(), owner.ID, uuid.New(), listingDetails("Ghost"))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPropertyService_GetHidesUnapprovedListings(t *testing.T) {
	f := newFixtures(t)
	agent := f.seedAccount(t, "agent@x.com", entity.RoleAgent, true)
	pending := f.seedProperty(t, agent.ID, entity.Moderation{})
	approved := f.seedProperty(t, agent.ID, approvedModeration(testStart))
	ctx := context.Background()

	_, err := f.listings.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = f.listings.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := f.listings.Get(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, got.ID)
}

func TestPropertyService_ShareQR(t *testing.T) {
	f := newFixtures(t)
	agent := f.seedAccount(t, "agent@x.com", entity.RoleAgent, true)
	pending := f.seedProperty(t, agent.ID, entity.Moderation{})
	approved := f.seedProperty(t, agent.ID, approvedModeration(testStart))
	ctx := context.Background()

	_, err := f.listings.ShareQR(ctx, pending.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	code, err := f.listings.ShareQR(ctx, approved.ID)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(code))
	require.NoError(t, err)
	assert.Equal(t, f.cfg.QRCode.Size, img.Bounds().Dx())
}
