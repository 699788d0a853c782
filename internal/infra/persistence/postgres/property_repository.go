package postgres

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// propertyRepository implements repository.PropertyRepository using GORM.
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository is the constructor for propertyRepository.
func NewPropertyRepository(db *gorm.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func (repo *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var propertyM model.PropertyModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&propertyM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPropertyNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find property")
	}

	return toPropertyDomain(&propertyM), nil
}

func (repo *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	if property.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate property id")
		}
		property.ID = id
	}

	propertyM := fromPropertyDomain(property)
	if err := repo.db.WithContext(ctx).Omit("Agent").Create(propertyM).Error; err != nil {
		return translateCreateError(err, "failed to create property")
	}

	property.CreatedAt = propertyM.CreatedAt
	property.UpdatedAt = propertyM.UpdatedAt

	return nil
}

// Update saves every column, including the zero values Updates would skip.
func (repo *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	propertyM := fromPropertyDomain(property)
	propertyM.UpdatedAt = time.Now().UTC()

	result := repo.db.WithContext(ctx).
		Model(&model.PropertyModel{}).
		Where("id = ?", property.ID).
		Select("*").
		Omit("ID", "AgentID", "Agent", "CreatedAt").
		Updates(propertyM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update property")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPropertyNotFound
	}

	property.UpdatedAt = propertyM.UpdatedAt

	return nil
}

func (repo *propertyRepository) List(ctx context.Context, filter repository.PropertyFilter) ([]*entity.Property, error) {
	query := repo.db.WithContext(ctx).Model(&model.PropertyModel{})
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.State != nil {
		query = scopeModerationState(query, *filter.State)
	}

	var propertyMs []model.PropertyModel
	if err := query.Order("created_at DESC").Find(&propertyMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list properties")
	}

	properties := make([]*entity.Property, 0, len(propertyMs))
	for i := range propertyMs {
		properties = append(properties, toPropertyDomain(&propertyMs[i]))
	}

	return properties, nil
}

func (repo *propertyRepository) UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PropertyModel{}).
		Where("id = ? AND is_approved = ?", id, prev.IsApproved).
		Updates(moderationColumns(next))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update property moderation")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrModerationConflict
	}

	return nil
}

func toPropertyDomain(data *model.PropertyModel) *entity.Property {
	if data == nil {
		return nil
	}

	return &entity.Property{
		ID:           data.ID,
		AgentID:      data.AgentID,
		Title:        data.Title,
		Description:  data.Description,
		Address:      data.Address,
		City:         data.City,
		PropertyType: entity.PropertyType(data.PropertyType),
		ListingType:  entity.ListingType(data.ListingType),
		Price:        data.Price,
		Bedrooms:     data.Bedrooms,
		Bathrooms:    data.Bathrooms,
		AreaSqFt:     data.AreaSqFt,
		Moderation: entity.Moderation{
			IsApproved:      data.IsApproved,
			RejectionReason: data.RejectionReason,
			ApprovedAt:      data.ApprovedAt,
			ApprovedBy:      data.ApprovedBy,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromPropertyDomain(data *entity.Property) *model.PropertyModel {
	if data == nil {
		return nil
	}

	return &model.PropertyModel{
		ID:              data.ID,
		AgentID:         data.AgentID,
		Title:           data.Title,
		Description:     data.Description,
		Address:         data.Address,
		City:            data.City,
		PropertyType:    string(data.PropertyType),
		ListingType:     string(data.ListingType),
		Price:           data.Price,
		Bedrooms:        data.Bedrooms,
		Bathrooms:       data.Bathrooms,
		AreaSqFt:        data.AreaSqFt,
		IsApproved:      data.Moderation.IsApproved,
		RejectionReason: data.Moderation.RejectionReason,
		ApprovedAt:      data.Moderation.ApprovedAt,
		ApprovedBy:      data.Moderation.ApprovedBy,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
