package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// loginSession runs the full password and code flow for a seeded account.
func (f *fixtures) loginSession(t *testing.T, email string) *usecase.LoginResult {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.auth.Login(ctx, &usecase.LoginInput{Email: email, Password: testPassword, IP: testIP}))
	result, err := f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: email, Code: f.loginCode(t, email)})
	require.NoError(t, err)

	return result
}

func TestSessionService_RefreshIssuesAccessToken(t *testing.T) {
	f := newFixtures(t)
	account := f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	session := f.loginSession(t, "jo@x.com")

	grant, err := f.sessions.Refresh(context.Background(), session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, grant.AccessTTL)

	authenticated, err := f.sessions.Authenticate(context.Background(), grant.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, authenticated.ID)
}

func TestSessionService_NewSessionRevokesOldRefreshToken(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()

	first := f.loginSession(t, "jo@x.com")
	f.clock.Advance(61 * time.Second)
	second := f.loginSession(t, "jo@x.com")
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err := f.sessions.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRevoked)

	_, err = f.sessions.Refresh(ctx, second.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestSessionService_Refresh_Errors(t *testing.T) {
	f := newFixtures(t)
	account := f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	session := f.loginSession(t, "jo@x.com")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"type": "refresh",
		"sub":  account.ID.String(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(f.cfg.SecretKey.Refresh))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"missing token", "", domainerrors.ErrUnauthenticated},
		{"garbled token", "not.a.jwt", domainerrors.ErrInvalidToken},
		{"access token in place of refresh", session.Tokens.AccessToken, domainerrors.ErrInvalidToken},
		{"expired token", expired, domainerrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sessions.Refresh(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSessionService_LogoutRevokesRefreshToken(t *testing.T) {
	tests := []struct {
		name   string
		tokens func(*usecase.SessionTokens) (string, string)
	}{
		{"with access token", func(s *usecase.SessionTokens) (string, string) { return s.AccessToken, "" }},
		{"with refresh token only", func(s *usecase.SessionTokens) (string, string) { return "", s.RefreshToken }},
		{"garbled access falls back to refresh", func(s *usecase.SessionTokens) (string, string) { return "garbage", s.RefreshToken }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)
			account := f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
			session := f.loginSession(t, "jo@x.com")
			ctx := context.Background()

			access, refresh := tt.tokens(session.Tokens)
			require.NoError(t, f.sessions.Logout(ctx, access, refresh))

			_, err := f.store.Get(ctx, refreshKey(account.ID))
			assert.ErrorIs(t, err, repository.ErrEphemeralKeyNotFound)

			_, err = f.sessions.Refresh(ctx, session.Tokens.RefreshToken)
			assert.ErrorIs(t, err, domainerrors.ErrRevoked)
		})
	}
}

func TestSessionService_LogoutWithoutTokens(t *testing.T) {
	f := newFixtures(t)

	assert.NoError(t, f.sessions.Logout(context.Background(), "", ""))
	assert.NoError(t, f.sessions.Logout(context.Background(), "garbage", "garbage"))
}

func TestSessionService_Authenticate(t *testing.T) {
	f := newFixtures(t)
	account := f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	session := f.loginSession(t, "jo@x.com")
	ctx := context.Background()

	got, err := f.sessions.Authenticate(ctx, session.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.Email, got.Email)

	_, err = f.sessions.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = f.sessions.Authenticate(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	f.accounts.Delete(account.ID)
	_, err = f.sessions.Authenticate(ctx, session.Tokens.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestSessionService_Refresh_StoreFailureFailsClosed(t *testing.T) {
	f := newFixtures(t)
	store := &mockStore{}
	sessions := NewSessionService(SessionServiceParams{
		AccountRepo:  f.accounts,
		Store:        store,
		TokenService: f.tokens,
		Logger:       newDiscardLogger(),
	})

	refresh, err := f.tokens.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	store.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, errors.New("connection refused"))

	_, err = sessions.Refresh(context.Background(), refresh)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrRevoked)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidToken)
	store.AssertExpectations(t)
}

func TestSessionService_IssueSession_StoreFailure(t *testing.T) {
	f := newFixtures(t)
	store := &mockStore{}
	sessions := NewSessionService(SessionServiceParams{
		AccountRepo:  f.accounts,
		Store:        store,
		TokenService: f.tokens,
		Logger:       newDiscardLogger(),
	})
	accountID := uuid.New()

	store.On("Set", mock.Anything, refreshKey(accountID), mock.Anything, 7*24*time.Hour).Return(errors.New("connection refused"))

	_, err := sessions.IssueSession(context.Background(), accountID)
	assert.Error(t, err)
	store.AssertExpectations(t)
}
