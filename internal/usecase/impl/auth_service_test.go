package impl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"estate/config"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIP       = "203.0.113.7"
	testPassword = "longpass1"
)

func (f *fixtures) seedAccount(t *testing.T, email string, role entity.Role, approved bool) *entity.Account {
	t.Helper()

	hash, err := f.hasher.Hash(testPassword)
	require.NoError(t, err)

	account := &entity.Account{
		Name:         "Seeded " + role.String(),
		Email:        email,
		PasswordHash: hash,
		Contact:      "9876543210",
		Role:         role,
		Moderation:   entity.Moderation{IsApproved: approved},
	}
	if role == entity.RoleAgent {
		account.Agent = &entity.AgentProfile{AgencyName: "Harbour Homes", LicenseNumber: "LIC-42"}
	}
	f.accounts.Put(account)

	return account
}

func signupInput(email string, role entity.Role) *usecase.SignupInput {
	input := &usecase.SignupInput{
		Name:     "Jo Lee",
		Email:    email,
		Password: testPassword,
		Contact:  "9876543210",
		Role:     role,
		IP:       testIP,
	}
	if role == entity.RoleAgent {
		input.AgencyName = "Harbour Homes"
		input.LicenseNumber = "LIC-42"
	}

	return input
}

func TestAuthService_SignupConfirmYieldsAccountWithRole(t *testing.T) {
	tests := []struct {
		name         string
		role         entity.Role
		wantApproved bool
	}{
		{"user is implicitly approved", entity.RoleUser, true},
		{"agent starts pending", entity.RoleAgent, false},
		{"empty role defaults to user", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)
			ctx := context.Background()

			require.NoError(t, f.auth.RequestSignup(ctx, signupInput("Jo@X.com ", tt.role)))

			f.clock.Advance(4 * time.Minute)
			account, err := f.auth.ConfirmSignup(ctx, f.verificationToken(t, "jo@x.com"))
			require.NoError(t, err)

			wantRole := tt.role
			if wantRole == "" {
				wantRole = entity.RoleUser
			}
			assert.Equal(t, wantRole, account.Role)
			assert.Equal(t, "jo@x.com", account.Email)
			assert.Equal(t, tt.wantApproved, account.IsApproved())
			assert.False(t, account.Moderation.IsApproved)
			assert.Equal(t, wantRole == entity.RoleAgent, account.Agent != nil)
			assert.True(t, f.hasher.Check(testPassword, account.PasswordHash))
		})
	}
}

func TestAuthService_ConfirmSignup_UnknownOrExpiredToken(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.auth.ConfirmSignup(ctx, "deadbeef")
	assert.ErrorIs(t, err, domainerrors.ErrExpired)

	_, err = f.auth.ConfirmSignup(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrExpired)

	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser)))
	token := f.verificationToken(t, "jo@x.com")

	f.clock.Advance(5*time.Minute + time.Second)
	_, err = f.auth.ConfirmSignup(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrExpired)

	assert.Zero(t, f.accounts.Count())
}

func TestAuthService_SecondSignupInvalidatesFirstToken(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser)))
	first := f.verificationToken(t, "jo@x.com")

	f.clock.Advance(61 * time.Second)
	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleAgent)))
	second := f.verificationToken(t, "jo@x.com")
	require.NotEqual(t, first, second)

	_, err := f.auth.ConfirmSignup(ctx, first)
	assert.ErrorIs(t, err, domainerrors.ErrExpired)
	assert.Zero(t, f.accounts.Count())

	account, err := f.auth.ConfirmSignup(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAgent, account.Role)

	_, err = f.store.Get(ctx, signupEmailKey("jo@x.com"))
	assert.ErrorIs(t, err, repository.ErrEphemeralKeyNotFound, "pointer is removed after confirmation")
}

func TestAuthService_Signup_ExistingEmail(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)

	err := f.auth.RequestSignup(context.Background(), signupInput("JO@x.com", entity.RoleUser))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	assert.Empty(t, f.dispatcher.Sent())
}

func TestAuthService_ConfirmSignup_EmailTakenMeanwhile(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser)))
	token := f.verificationToken(t, "jo@x.com")
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)

	_, err := f.auth.ConfirmSignup(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	assert.Equal(t, 1, f.accounts.Count())
}

func TestAuthService_Signup_RateLimited(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser)))

	err := f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser))
	require.ErrorIs(t, err, domainerrors.ErrRateLimited)

	var rateErr *domainerrors.RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 60*time.Second, rateErr.RetryAfter)

	other := signupInput("jo@x.com", entity.RoleUser)
	other.IP = "198.51.100.1"
	assert.NoError(t, f.auth.RequestSignup(ctx, other), "markers are per source address")
}

func TestAuthService_Signup_DispatchFailureIsIgnored(t *testing.T) {
	f := newFixtures(t)
	f.dispatcher.Err = errors.New("smtp down")
	ctx := context.Background()

	require.NoError(t, f.auth.RequestSignup(ctx, signupInput("jo@x.com", entity.RoleUser)))

	_, err := f.auth.ConfirmSignup(ctx, f.verificationToken(t, "jo@x.com"))
	assert.NoError(t, err)
}

func TestAuthService_Signup_RejectsAdminRole(t *testing.T) {
	f := newFixtures(t)

	err := f.auth.RequestSignup(context.Background(), signupInput("jo@x.com", entity.RoleAdmin))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthService_Signup_RejectsPasswordOverBcryptLimit(t *testing.T) {
	f := newFixtures(t)
	input := signupInput("jo@x.com", entity.RoleUser)
	input.Password = strings.Repeat("é", 37)

	err := f.auth.RequestSignup(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Empty(t, f.dispatcher.Sent())
}

func TestAuthService_Login_SecondAttemptIsRateLimited(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()
	input := &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}

	require.NoError(t, f.auth.Login(ctx, input))
	assert.ErrorIs(t, f.auth.Login(ctx, input), domainerrors.ErrRateLimited)

	f.clock.Advance(61 * time.Second)
	assert.NoError(t, f.auth.Login(ctx, input))
}

func TestAuthService_Login_RateLimitDisabled(t *testing.T) {
	f := newFixtures(t, func(cfg *config.Config) { cfg.Auth.RateLimit.Enabled = false })
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()
	input := &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}

	require.NoError(t, f.auth.Login(ctx, input))
	assert.NoError(t, f.auth.Login(ctx, input))
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()

	err := f.auth.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: testPassword, IP: testIP})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = f.auth.Login(ctx, &usecase.LoginInput{Email: "jo@x.com", Password: "wrongpass1", IP: testIP})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	assert.Empty(t, f.dispatcher.Sent())
}

func TestAuthService_Login_UnapprovedAgentGetsNoOTP(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "agent@x.com", entity.RoleAgent, false)
	ctx := context.Background()

	err := f.auth.Login(ctx, &usecase.LoginInput{Email: "agent@x.com", Password: testPassword, IP: testIP})
	require.ErrorIs(t, err, domainerrors.ErrPendingApproval)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.HTTPCode())

	_, err = f.store.Get(ctx, otpKey("agent@x.com"))
	assert.ErrorIs(t, err, repository.ErrEphemeralKeyNotFound)
	_, sent := f.dispatcher.Last(service.NotificationLoginOTP, "agent@x.com")
	assert.False(t, sent)
}

func TestAuthService_VerifyOTP_ConsumesCode(t *testing.T) {
	f := newFixtures(t)
	account := f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, f.auth.Login(ctx, &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}))
	code := f.loginCode(t, "jo@x.com")
	require.Len(t, code, 6)

	result, err := f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: code})
	require.NoError(t, err)
	assert.Equal(t, account.ID, result.Account.ID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, time.Minute, result.Tokens.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, result.Tokens.RefreshTTL)

	_, err = f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: code})
	assert.ErrorIs(t, err, domainerrors.ErrExpired)
}

func TestAuthService_VerifyOTP_WrongCodeKeepsOTP(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, f.auth.Login(ctx, &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}))
	code := f.loginCode(t, "jo@x.com")

	wrong := []byte(code)
	wrong[0] = '0' + (wrong[0]-'0'+1)%10

	_, err := f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: string(wrong)})
	require.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	f.clock.Advance(4 * time.Minute)
	_, err = f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: code})
	assert.NoError(t, err)
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, f.auth.Login(ctx, &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}))
	code := f.loginCode(t, "jo@x.com")

	f.clock.Advance(5*time.Minute + time.Second)
	_, err := f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: code})
	assert.ErrorIs(t, err, domainerrors.ErrExpired)
}

func TestAuthService_ResendOTP(t *testing.T) {
	f := newFixtures(t)
	f.seedAccount(t, "jo@x.com", entity.RoleUser, true)
	f.seedAccount(t, "agent@x.com", entity.RoleAgent, false)
	ctx := context.Background()

	err := f.auth.ResendOTP(ctx, &usecase.ResendOTPInput{Email: "nobody@x.com", IP: testIP})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = f.auth.ResendOTP(ctx, &usecase.ResendOTPInput{Email: "agent@x.com", IP: testIP})
	assert.ErrorIs(t, err, domainerrors.ErrPendingApproval)

	require.NoError(t, f.auth.Login(ctx, &usecase.LoginInput{Email: "jo@x.com", Password: testPassword, IP: testIP}))
	first := f.loginCode(t, "jo@x.com")

	require.NoError(t, f.auth.ResendOTP(ctx, &usecase.ResendOTPInput{Email: "jo@x.com", IP: testIP}),
		"resend has its own rate-limit namespace")
	second := f.loginCode(t, "jo@x.com")

	stored, err := f.store.Get(ctx, otpKey("jo@x.com"))
	require.NoError(t, err)
	assert.Equal(t, second, string(stored))
	if first != second {
		_, err = f.auth.VerifyOTP(ctx, &usecase.VerifyOTPInput{Email: "jo@x.com", Code: first})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP, "resend replaces the previous code")
	}

	err = f.auth.ResendOTP(ctx, &usecase.ResendOTPInput{Email: "jo@x.com", IP: testIP})
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)
}

func TestAuthService_SignupThenVerifyScenario(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	err := f.auth.RequestSignup(ctx, &usecase.SignupInput{
		Name:     "Jo Lee",
		Email:    "jo@x.com",
		Password: "longpass1",
		Contact:  "9876543210",
		IP:       testIP,
	})
	require.NoError(t, err)

	account, err := f.auth.ConfirmSignup(ctx, f.verificationToken(t, "jo@x.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, account.Role)
	assert.Equal(t, "Jo Lee", account.Name)
	assert.True(t, account.IsApproved())
}
