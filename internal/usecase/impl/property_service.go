package impl

import (
	"context"
	"log/slog"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// propertyService implements the PropertyUsecase interface.
type propertyService struct {
	propertyRepo repository.PropertyRepository
	qrcode       service.QRCodeService
	logger       *slog.Logger
}

// PropertyServiceParams holds dependencies for PropertyService, injected by Fx.
type PropertyServiceParams struct {
	fx.In

	PropertyRepo repository.PropertyRepository
	QRCode       service.QRCodeService
	Logger       *slog.Logger
}

// NewPropertyService is the constructor for propertyService.
func NewPropertyService(params PropertyServiceParams) usecase.PropertyUsecase {
	return &propertyService{
		propertyRepo: params.PropertyRepo,
		qrcode:       params.QRCode,
		logger:       params.Logger,
	}
}

func (srv *propertyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores a new listing awaiting review.
func (srv *propertyService) Create(ctx context.Context, agentID uuid.UUID, details entity.PropertyDetails) (*entity.Property, error) {
	property := entity.NewProperty(agentID, details)
	if err := srv.propertyRepo.Create(ctx, property); err != nil {
		return nil, errors.Wrap(err, "failed to create property")
	}

	srv.log(ctx).Info("Property submitted for review", slog.Any("propertyID", property.ID), slog.Any("agentID", agentID))

	return property, nil
}

// Update replaces the listing content and sends it back to review.
func (srv *propertyService) Update(ctx context.Context, agentID, propertyID uuid.UUID, details entity.PropertyDetails) (*entity.Property, error) {
	property, err := srv.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Property not found"), "update")
		}

		return nil, errors.Wrap(err, "failed to load property")
	}

	if !property.IsOwnedBy(agentID) {
		srv.log(ctx).Warn("Agent tried to edit another agent's listing",
			slog.Any("propertyID", propertyID),
			slog.Any("agentID", agentID),
		)

		return nil, errors.Wrap(domainerrors.ErrForbidden.WithMessage("You can only edit your own listings"), "not the owner")
	}

	property.Edit(details)
	if err := srv.propertyRepo.Update(ctx, property); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Property not found"), "update")
		}

		return nil, errors.Wrap(err, "failed to update property")
	}

	return property, nil
}

func (srv *propertyService) ListMine(ctx context.Context, agentID uuid.UUID) ([]*entity.Property, error) {
	properties, err := srv.propertyRepo.List(ctx, repository.PropertyFilter{AgentID: &agentID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list agent properties")
	}

	return properties, nil
}

// Get hides listings that are not approved behind NotFound.
func (srv *propertyService) Get(ctx context.Context, propertyID uuid.UUID) (*entity.Property, error) {
	property, err := srv.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Property not found"), "get")
		}

		return nil, errors.Wrap(err, "failed to load property")
	}

	if !property.Moderation.IsApproved {
		return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Property not found"), "property not public")
	}

	return property, nil
}

func (srv *propertyService) ShareQR(ctx context.Context, propertyID uuid.UUID) ([]byte, error) {
	property, err := srv.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GeneratePropertyQR(property.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render share code")
	}

	return png, nil
}
