package usecase

import (
	"context"
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionTokens is a freshly issued access/refresh pair with their lifetimes.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// AccessGrant is the result of a refresh: a new access token only.
type AccessGrant struct {
	AccessToken string
	AccessTTL   time.Duration
}

// SessionUsecase defines the interface for session management operations.
type SessionUsecase interface {
	// IssueSession mints both tokens and records the refresh token as the account's only valid one.
	IssueSession(ctx context.Context, accountID uuid.UUID) (*SessionTokens, error)

	// Refresh exchanges a valid, current refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*AccessGrant, error)

	// Logout revokes the refresh token of whichever account the tokens identify.
	// It succeeds when neither token identifies an account.
	Logout(ctx context.Context, accessToken, refreshToken string) error

	// Authenticate resolves the account behind an access token.
	Authenticate(ctx context.Context, accessToken string) (*entity.Account, error)
}
