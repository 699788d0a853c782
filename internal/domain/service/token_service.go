package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// ErrTokenInvalid is returned for tokens that are malformed, expired, wrongly signed or of the wrong type.
var ErrTokenInvalid = errors.New("token is invalid")

// Claims are the verified contents of a session token.
type Claims struct {
	AccountID uuid.UUID
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService mints and verifies signed session tokens.
// Access and refresh tokens are signed with distinct secrets.
type TokenService interface {
	// GenerateAccessToken creates a short-lived access token for the account.
	GenerateAccessToken(accountID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token for the account.
	GenerateRefreshToken(accountID uuid.UUID) (string, error)

	// ValidateToken verifies signature, expiry and type, returning ErrTokenInvalid on any failure.
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)

	// AccessTokenDuration returns the access token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
