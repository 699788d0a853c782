package handler

import (
	"log/slog"
	"net/http"

	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/response"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PropertyHandlerParams holds dependencies for PropertyHandler, injected by Fx.
type PropertyHandlerParams struct {
	fx.In

	PropertyUC usecase.PropertyUsecase
	Logger     *slog.Logger
}

// PropertyHandler serves listing management for agents and the public listing view.
type PropertyHandler struct {
	propertyUC usecase.PropertyUsecase
	logger     *slog.Logger
}

func NewPropertyHandler(params PropertyHandlerParams) *PropertyHandler {
	return &PropertyHandler{
		propertyUC: params.PropertyUC,
		logger:     params.Logger,
	}
}

// PropertyRequest is the body of the create and update routes.
type PropertyRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=120"`
	Description  string `json:"description" validate:"max=2000"`
	Address      string `json:"address" validate:"required,max=200"`
	City         string `json:"city" validate:"required,max=80"`
	PropertyType string `json:"propertyType" validate:"required,oneof=apartment house villa plot commercial"`
	ListingType  string `json:"listingType" validate:"required,oneof=sale rent"`
	Price        int64  `json:"price" validate:"gt=0"`
	Bedrooms     int    `json:"bedrooms" validate:"gte=0,max=50"`
	Bathrooms    int    `json:"bathrooms" validate:"gte=0,max=50"`
	AreaSqFt     int    `json:"areaSqFt" validate:"gt=0"`
}

func (r *PropertyRequest) details() entity.PropertyDetails {
	return entity.PropertyDetails{
		Title:        r.Title,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		PropertyType: entity.PropertyType(r.PropertyType),
		ListingType:  entity.ListingType(r.ListingType),
		Price:        r.Price,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		AreaSqFt:     r.AreaSqFt,
	}
}

// Create submits a listing for review.
func (h *PropertyHandler) Create(c echo.Context) error {
	agent, ok := middleware.GetAccount(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no agent on request")
	}

	var req PropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	property, err := h.propertyUC.Create(c.Request().Context(), agent.ID, req.details())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "Property submitted for review", map[string]any{
		"property": toPropertyResponse(property),
	})
}

// Update edits an owned listing and sends it back to review.
func (h *PropertyHandler) Update(c echo.Context) error {
	agent, ok := middleware.GetAccount(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no agent on request")
	}

	propertyID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req PropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	property, err := h.propertyUC.Update(c.Request().Context(), agent.ID, propertyID, req.details())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Property updated and sent for review", map[string]any{
		"property": toPropertyResponse(property),
	})
}

func (h *PropertyHandler) ListMine(c echo.Context) error {
	agent, ok := middleware.GetAccount(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no agent on request")
	}

	properties, err := h.propertyUC.ListMine(c.Request().Context(), agent.ID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "ok", map[string]any{
		"properties": toPropertyResponses(properties),
	})
}

// Get shows an approved listing to anyone.
func (h *PropertyHandler) Get(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	property, err := h.propertyUC.Get(c.Request().Context(), propertyID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "ok", map[string]any{
		"property": toPropertyResponse(property),
	})
}

// ShareQR renders the share code of an approved listing as PNG.
func (h *PropertyHandler) ShareQR(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.propertyUC.ShareQR(c.Request().Context(), propertyID)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")

	return c.Blob(http.StatusOK, "image/png", png)
}
