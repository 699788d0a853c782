// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionClaims is the JWT payload for both token types.
type sessionClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  []byte        // Secret key for signing access tokens.
	refreshSecret []byte        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.SecretKey.Access == cfg.SecretKey.Refresh {
		return nil, errors.New("access and refresh secrets must differ")
	}

	accessTTL, refreshTTL := time.Minute, 7*24*time.Hour
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// GenerateAccessToken creates a signed access token for the account.
func (s *jwtService) GenerateAccessToken(accountID uuid.UUID) (string, error) {
	return s.generateToken(accountID, service.TokenTypeAccess)
}

// GenerateRefreshToken creates a signed refresh token for the account.
func (s *jwtService) GenerateRefreshToken(accountID uuid.UUID) (string, error) {
	return s.generateToken(accountID, service.TokenTypeRefresh)
}

// ValidateToken checks signature, expiry and token type.
func (s *jwtService) ValidateToken(tokenString string, tokenType service.TokenType) (*service.Claims, error) {
	secret, _ := s.secretAndTTL(tokenType)
	if secret == nil {
		return nil, errors.Wrapf(service.ErrTokenInvalid, "unknown token type %q", tokenType)
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, err.Error())
	}

	if claims.Type != string(tokenType) {
		return nil, errors.Wrapf(service.ErrTokenInvalid, "expected %s token, got %q", tokenType, claims.Type)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "invalid subject")
	}

	result := &service.Claims{
		AccountID: accountID,
		Type:      tokenType,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}

// AccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

// RefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) secretAndTTL(tokenType service.TokenType) ([]byte, time.Duration) {
	switch tokenType {
	case service.TokenTypeAccess:
		return s.accessSecret, s.accessTTL
	case service.TokenTypeRefresh:
		return s.refreshSecret, s.refreshTTL
	default:
		return nil, 0
	}
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(accountID uuid.UUID, tokenType service.TokenType) (string, error) {
	secret, ttl := s.secretAndTTL(tokenType)
	now := s.now()

	claims := sessionClaims{
		Type: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// Unique per token so two sessions issued in the same second never collide.
			ID: uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}
