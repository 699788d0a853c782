package impl

import (
	"context"
	"log/slog"
	"time"

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

// Reasons used when an admin rejects without giving one.
const (
	DefaultAgentRejectionReason    = "Your agent application did not meet our requirements."
	DefaultPropertyRejectionReason = "Your listing did not meet our listing guidelines."
)

// maxRejectAttempts bounds the reload-and-retry loop when a reject races another transition.
const maxRejectAttempts = 3

// moderationService implements the ModerationUsecase interface.
// Every write is a compare-and-set on is_approved, so concurrent approvals stamp approvedAt once.
type moderationService struct {
	accountRepo  repository.AccountRepository
	propertyRepo repository.PropertyRepository
	dispatcher   service.NotificationDispatcher
	publisher    service.EventPublisher
	now          func() time.Time
	logger       *slog.Logger
}

// ModerationServiceParams holds dependencies for ModerationService, injected by Fx.
type ModerationServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	PropertyRepo repository.PropertyRepository
	Dispatcher   service.NotificationDispatcher
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewModerationService is the constructor for moderationService.
func NewModerationService(params ModerationServiceParams) usecase.ModerationUsecase {
	return &moderationService{
		accountRepo:  params.AccountRepo,
		propertyRepo: params.PropertyRepo,
		dispatcher:   params.Dispatcher,
		publisher:    params.Publisher,
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *moderationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Agents ---

func (srv *moderationService) ApproveAgent(ctx context.Context, adminID, agentID uuid.UUID) (*entity.Account, error) {
	agent, err := srv.loadAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	prev := agent.Moderation
	next := prev
	if err := next.Approve(adminID, srv.now()); err != nil {
		return nil, errors.Wrap(domainerrors.ErrAlreadyApproved.WithMessage("Agent is already approved"), err.Error())
	}

	if err := srv.accountRepo.UpdateModeration(ctx, agent.ID, prev, next); err != nil {
		return nil, srv.translateApproveErr(err, "Agent is already approved")
	}
	agent.Moderation = next

	srv.afterTransition(ctx, adminID, &service.Notification{
		Kind: service.NotificationAgentApproved,
		To:   agent.Email,
		Name: agent.Name,
	}, service.ModerationEntityAgent, agent.ID, next)

	return agent, nil
}

func (srv *moderationService) RejectAgent(ctx context.Context, adminID, agentID uuid.UUID, reason string) (*entity.Account, error) {
	var agent *entity.Account
	err := srv.rejectWithRetry(ctx, func() error {
		var err error
		agent, err = srv.loadAgent(ctx, agentID)
		if err != nil {
			return err
		}

		prev := agent.Moderation
		agent.Moderation.Reject(reason, DefaultAgentRejectionReason)

		return srv.accountRepo.UpdateModeration(ctx, agent.ID, prev, agent.Moderation)
	})
	if err != nil {
		return nil, err
	}

	srv.afterTransition(ctx, adminID, &service.Notification{
		Kind: service.NotificationAgentRejected,
		To:   agent.Email,
		Name: agent.Name,
		Data: map[string]string{service.NotificationDataReason: agent.Moderation.RejectionReason},
	}, service.ModerationEntityAgent, agent.ID, agent.Moderation)

	return agent, nil
}

func (srv *moderationService) ListAgents(ctx context.Context, state *entity.ModerationState) ([]*entity.Account, error) {
	agents, err := srv.accountRepo.ListByRole(ctx, entity.RoleAgent, state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list agents")
	}

	return agents, nil
}

func (srv *moderationService) loadAgent(ctx context.Context, agentID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Agent not found"), "agent lookup")
		}

		return nil, errors.Wrap(err, "failed to load agent")
	}

	if account.Role != entity.RoleAgent {
		return nil, errors.Wrapf(domainerrors.ErrNotFound.WithMessage("Agent not found"), "account %s is a %s", agentID, account.Role)
	}

	return account, nil
}

// --- Properties ---

func (srv *moderationService) ApproveProperty(ctx context.Context, adminID, propertyID uuid.UUID) (*entity.Property, error) {
	property, err := srv.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	prev := property.Moderation
	next := prev
	if err := next.Approve(adminID, srv.now()); err != nil {
		return nil, errors.Wrap(domainerrors.ErrAlreadyApproved.WithMessage("Property is already approved"), err.Error())
	}

	if err := srv.propertyRepo.UpdateModeration(ctx, property.ID, prev, next); err != nil {
		return nil, srv.translateApproveErr(err, "Property is already approved")
	}
	property.Moderation = next

	srv.afterPropertyTransition(ctx, adminID, property, service.NotificationPropertyApproved)

	return property, nil
}

func (srv *moderationService) RejectProperty(ctx context.Context, adminID, propertyID uuid.UUID, reason string) (*entity.Property, error) {
	var property *entity.Property
	err := srv.rejectWithRetry(ctx, func() error {
		var err error
		property, err = srv.loadProperty(ctx, propertyID)
		if err != nil {
			return err
		}

		prev := property.Moderation
		property.Moderation.Reject(reason, DefaultPropertyRejectionReason)

		return srv.propertyRepo.UpdateModeration(ctx, property.ID, prev, property.Moderation)
	})
	if err != nil {
		return nil, err
	}

	srv.afterPropertyTransition(ctx, adminID, property, service.NotificationPropertyRejected)

	return property, nil
}

func (srv *moderationService) ListProperties(ctx context.Context, state *entity.ModerationState) ([]*entity.Property, error) {
	properties, err := srv.propertyRepo.List(ctx, repository.PropertyFilter{State: state})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list properties")
	}

	return properties, nil
}

func (srv *moderationService) loadProperty(ctx context.Context, propertyID uuid.UUID) (*entity.Property, error) {
	property, err := srv.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound.WithMessage("Property not found"), "property lookup")
		}

		return nil, errors.Wrap(err, "failed to load property")
	}

	return property, nil
}

func (srv *moderationService) afterPropertyTransition(ctx context.Context, adminID uuid.UUID, property *entity.Property, kind service.NotificationKind) {
	var notification *service.Notification

	agent, err := srv.accountRepo.FindByID(ctx, property.AgentID)
	if err != nil {
		srv.log(ctx).Error("Failed to load listing agent for notification",
			slog.Any("propertyID", property.ID),
			slog.Any("error", err),
		)
	} else {
		notification = &service.Notification{
			Kind: kind,
			To:   agent.Email,
			Name: agent.Name,
			Data: map[string]string{
				service.NotificationDataTitle:  property.Title,
				service.NotificationDataReason: property.Moderation.RejectionReason,
			},
		}
	}

	srv.afterTransition(ctx, adminID, notification, service.ModerationEntityProperty, property.ID, property.Moderation)
}

// --- Shared ---

// translateApproveErr maps a lost compare-and-set to AlreadyApproved.
func (srv *moderationService) translateApproveErr(err error, alreadyApprovedMessage string) error {
	switch {
	case errors.Is(err, repository.ErrModerationConflict):
		return errors.Wrap(domainerrors.ErrAlreadyApproved.WithMessage(alreadyApprovedMessage), "concurrent approval")
	case errors.Is(err, repository.ErrAccountNotFound), errors.Is(err, repository.ErrPropertyNotFound):
		return errors.Wrap(domainerrors.ErrNotFound, "moderation target vanished")
	default:
		return errors.Wrap(err, "failed to persist approval")
	}
}

// rejectWithRetry reruns attempt when another transition changed is_approved in between.
func (srv *moderationService) rejectWithRetry(ctx context.Context, attempt func() error) error {
	var err error
	for range maxRejectAttempts {
		err = attempt()
		if !errors.Is(err, repository.ErrModerationConflict) {
			break
		}
		srv.log(ctx).Info("Rejection raced another transition, retrying")
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrModerationConflict):
		return errors.Wrap(err, "rejection kept conflicting")
	case errors.Is(err, repository.ErrAccountNotFound), errors.Is(err, repository.ErrPropertyNotFound):
		return errors.Wrap(domainerrors.ErrNotFound, "moderation target vanished")
	default:
		return err
	}
}

// afterTransition notifies the agent and publishes the event. Failures are logged only.
func (srv *moderationService) afterTransition(
	ctx context.Context,
	adminID uuid.UUID,
	notification *service.Notification,
	entityType string,
	entityID uuid.UUID,
	moderation entity.Moderation,
) {
	state := moderation.State()
	srv.log(ctx).Info("Moderation transition",
		slog.String("entityType", entityType),
		slog.Any("entityID", entityID),
		slog.String("state", string(state)),
		slog.Any("adminID", adminID),
	)

	if notification != nil {
		if err := srv.dispatcher.Dispatch(ctx, notification); err != nil {
			srv.log(ctx).Error("Failed to dispatch moderation notification",
				slog.String("kind", string(notification.Kind)),
				slog.Any("error", err),
			)
		}
	}

	event := &service.ModerationEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID.String(),
		State:      string(state),
		Reason:     moderation.RejectionReason,
		ActorID:    adminID.String(),
		OccurredAt: srv.now().UTC(),
	}
	if err := srv.publisher.PublishModerationEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish moderation event",
			slog.String("entityType", entityType),
			slog.Any("entityID", entityID),
			slog.Any("error", err),
		)
	}
}
