// Package impl contains the application-specific business rules implementations.
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

// sessionService implements the SessionUsecase interface.
// Each account has at most one valid refresh token, recorded under refresh:<id>.
type sessionService struct {
	accountRepo  repository.AccountRepository
	store        repository.EphemeralStore
	tokenService service.TokenService
	logger       *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Store        repository.EphemeralStore
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		accountRepo:  params.AccountRepo,
		store:        params.Store,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) IssueSession(ctx context.Context, accountID uuid.UUID) (*usecase.SessionTokens, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	refreshTTL := srv.tokenService.RefreshTokenDuration()
	if err := srv.store.Set(ctx, refreshKey(accountID), []byte(refreshToken), refreshTTL); err != nil {
		return nil, errors.Wrap(err, "failed to record refresh token")
	}

	srv.log(ctx).Debug("Session issued", slog.Any("accountID", accountID))

	return &usecase.SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessTTL:    srv.tokenService.AccessTokenDuration(),
		RefreshTTL:   refreshTTL,
	}, nil
}

func (srv *sessionService) Refresh(ctx context.Context, refreshToken string) (*usecase.AccessGrant, error) {
	if refreshToken == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token missing")
	}

	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	current, err := srv.store.Get(ctx, refreshKey(claims.AccountID))
	if err != nil {
		if errors.Is(err, repository.ErrEphemeralKeyNotFound) {
			srv.log(ctx).Info("Refresh with revoked token", slog.Any("accountID", claims.AccountID))

			return nil, errors.Wrap(domainerrors.ErrRevoked, "no active refresh token")
		}

		return nil, errors.Wrap(err, "failed to load refresh token")
	}

	if !secretsEqual(string(current), refreshToken) {
		srv.log(ctx).Info("Refresh with superseded token", slog.Any("accountID", claims.AccountID))

		return nil, errors.Wrap(domainerrors.ErrRevoked, "refresh token superseded")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(claims.AccountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.AccessGrant{
		AccessToken: accessToken,
		AccessTTL:   srv.tokenService.AccessTokenDuration(),
	}, nil
}

func (srv *sessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	accountID, ok := srv.resolveAccountID(accessToken, refreshToken)
	if !ok {
		srv.log(ctx).Debug("Logout without a valid token, only clearing cookies")

		return nil
	}

	if err := srv.store.Delete(ctx, refreshKey(accountID)); err != nil {
		return errors.Wrap(err, "failed to revoke refresh token")
	}

	srv.log(ctx).Debug("Session revoked", slog.Any("accountID", accountID))

	return nil
}

// resolveAccountID prefers a valid access token and falls back to the refresh token.
func (srv *sessionService) resolveAccountID(accessToken, refreshToken string) (uuid.UUID, bool) {
	if accessToken != "" {
		if claims, err := srv.tokenService.ValidateToken(accessToken, service.TokenTypeAccess); err == nil {
			return claims.AccountID, true
		}
	}

	if refreshToken != "" {
		if claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh); err == nil {
			return claims.AccountID, true
		}
	}

	return uuid.Nil, false
}

func (srv *sessionService) Authenticate(ctx context.Context, accessToken string) (*entity.Account, error) {
	if accessToken == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "access token missing")
	}

	claims, err := srv.tokenService.ValidateToken(accessToken, service.TokenTypeAccess)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	account, err := srv.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load account")
	}

	return account, nil
}
