package handler

import (
	"log/slog"
	"net/http"

	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/response"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/infra/metrics"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	ModerationUC usecase.ModerationUsecase
	Recorder     *metrics.Recorder `optional:"true"`
	Logger       *slog.Logger
}

// AdminHandler serves the moderation queue.
type AdminHandler struct {
	moderationUC usecase.ModerationUsecase
	recorder     *metrics.Recorder
	logger       *slog.Logger
}

func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		moderationUC: params.ModerationUC,
		recorder:     params.Recorder,
		logger:       params.Logger,
	}
}

// RejectRequest is the optional body of the reject routes.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

func (h *AdminHandler) ListAgents(c echo.Context) error {
	state, err := stateFilter(c)
	if err != nil {
		return err
	}

	agents, err := h.moderationUC.ListAgents(c.Request().Context(), state)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "ok", map[string]any{
		"agents": toAccountResponses(agents),
	})
}

func (h *AdminHandler) ApproveAgent(c echo.Context) error {
	adminID, agentID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	agent, err := h.moderationUC.ApproveAgent(c.Request().Context(), adminID, agentID)
	if err != nil {
		return err
	}
	h.recorder.ModerationTransition(service.ModerationEntityAgent, string(agent.Moderation.State()))

	return response.Success(c, http.StatusOK, "Agent approved", map[string]any{
		"agent": toAccountResponse(agent),
	})
}

func (h *AdminHandler) RejectAgent(c echo.Context) error {
	adminID, agentID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	reason, err := rejectReason(c)
	if err != nil {
		return err
	}

	agent, err := h.moderationUC.RejectAgent(c.Request().Context(), adminID, agentID, reason)
	if err != nil {
		return err
	}
	h.recorder.ModerationTransition(service.ModerationEntityAgent, string(agent.Moderation.State()))

	return response.Success(c, http.StatusOK, "Agent rejected", map[string]any{
		"agent": toAccountResponse(agent),
	})
}

func (h *AdminHandler) ListProperties(c echo.Context) error {
	state, err := stateFilter(c)
	if err != nil {
		return err
	}

	properties, err := h.moderationUC.ListProperties(c.Request().Context(), state)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "ok", map[string]any{
		"properties": toPropertyResponses(properties),
	})
}

func (h *AdminHandler) ApproveProperty(c echo.Context) error {
	adminID, propertyID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	property, err := h.moderationUC.ApproveProperty(c.Request().Context(), adminID, propertyID)
	if err != nil {
		return err
	}
	h.recorder.ModerationTransition(service.ModerationEntityProperty, string(property.Moderation.State()))

	return response.Success(c, http.StatusOK, "Property approved", map[string]any{
		"property": toPropertyResponse(property),
	})
}

func (h *AdminHandler) RejectProperty(c echo.Context) error {
	adminID, propertyID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	reason, err := rejectReason(c)
	if err != nil {
		return err
	}

	property, err := h.moderationUC.RejectProperty(c.Request().Context(), adminID, propertyID, reason)
	if err != nil {
		return err
	}
	h.recorder.ModerationTransition(service.ModerationEntityProperty, string(property.Moderation.State()))

	return response.Success(c, http.StatusOK, "Property rejected", map[string]any{
		"property": toPropertyResponse(property),
	})
}

func (h *AdminHandler) actorAndTarget(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	admin, ok := middleware.GetAccount(c)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no admin on request")
	}

	target, err := pathID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return admin.ID, target, nil
}

// rejectReason reads the optional body. An empty body means no reason.
func rejectReason(c echo.Context) (string, error) {
	if c.Request().ContentLength == 0 {
		return "", nil
	}

	var req RejectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return "", err
	}

	return req.Reason, nil
}
