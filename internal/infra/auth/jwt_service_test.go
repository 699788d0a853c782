package auth

import (
	"testing"
	"time"

	"estate/config"
	"estate/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}

	return cfg
}

func newTestJWTService(t *testing.T) *jwtService {
	t.Helper()

	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService(t)
	accountID := uuid.New()

	accessToken, err := svc.GenerateAccessToken(accountID)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)
	assert.NotEqual(t, accessToken, refreshToken)

	accessClaims, err := svc.ValidateToken(accessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, accountID, accessClaims.AccountID)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)
	assert.WithinDuration(t, accessClaims.IssuedAt.Add(time.Minute), accessClaims.ExpiresAt, time.Second)

	refreshClaims, err := svc.ValidateToken(refreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, accountID, refreshClaims.AccountID)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_TokensIssuedTogetherAreDistinct(t *testing.T) {
	svc := newTestJWTService(t)
	accountID := uuid.New()

	first, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_RejectsWrongType(t *testing.T) {
	svc := newTestJWTService(t)
	accountID := uuid.New()

	refreshToken, err := svc.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	// Signed with the refresh secret, so it fails as an access token.
	_, err = svc.ValidateToken(refreshToken, service.TokenTypeAccess)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_RejectsTypeClaimForgedWithSameSecret(t *testing.T) {
	svc := newTestJWTService(t)

	claims := sessionClaims{
		Type: string(service.TokenTypeRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, service.TokenTypeAccess)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(t)
	issued := time.Now().Add(-2 * time.Minute)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token, service.TokenTypeAccess)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestJWTService(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "clearly-not-a-jwt-token-format"},
		{name: "empty", token: ""},
		{name: "tampered", token: mustTamper(t, svc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token, service.TokenTypeAccess)
			assert.ErrorIs(t, err, service.ErrTokenInvalid)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService(t)

	claims := sessionClaims{
		Type: string(service.TokenTypeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, service.TokenTypeAccess)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_SecretsValidation(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.Access = ""

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")

	cfg = newTestConfig()
	cfg.SecretKey.Refresh = cfg.SecretKey.Access
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTService_Durations(t *testing.T) {
	svc := newTestJWTService(t)

	assert.Equal(t, time.Minute, svc.AccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenDuration())
}

func mustTamper(t *testing.T, svc *jwtService) string {
	t.Helper()

	token, err := svc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	return token[:len(token)-2] + "xx"
}
