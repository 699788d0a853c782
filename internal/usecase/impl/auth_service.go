package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/usecase"

	"go.uber.org/fx"
)

// dummyPassword is hashed once so unknown emails cost the same bcrypt compare as real ones.
const dummyPassword = "estate-login-timing-equalizer"

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo     repository.AccountRepository
	store           repository.EphemeralStore
	hasher          service.PasswordHasher
	dispatcher      service.NotificationDispatcher
	sessions        usecase.SessionUsecase
	limiter         *rateLimiter
	clientURL       string
	verificationTTL time.Duration
	otpTTL          time.Duration
	dummyHash       func() (string, error)
	logger          *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Store       repository.EphemeralStore
	Hasher      service.PasswordHasher
	Dispatcher  service.NotificationDispatcher
	Sessions    usecase.SessionUsecase
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	srv := &authService{
		accountRepo: params.AccountRepo,
		store:       params.Store,
		hasher:      params.Hasher,
		dispatcher:  params.Dispatcher,
		sessions:    params.Sessions,
		limiter:     newRateLimiter(params.Store, params.Config, params.Logger),
		logger:      params.Logger,
	}

	if params.Config.App != nil {
		srv.clientURL = strings.TrimRight(params.Config.App.ClientURL, "/")
	}
	if params.Config.Auth != nil {
		srv.verificationTTL = params.Config.Auth.VerificationTTL
		srv.otpTTL = params.Config.Auth.OTPTTL
	}

	hasher := params.Hasher
	srv.dummyHash = sync.OnceValues(func() (string, error) {
		return hasher.Hash(dummyPassword)
	})

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestSignup stores the registration until the emailed link is followed.
func (srv *authService) RequestSignup(ctx context.Context, input *usecase.SignupInput) error {
	email := normalizeEmail(input.Email)
	role := entity.SignupRole(input.Role)
	if !role.SelfRegistrable() {
		return domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "role", Message: "role must be one of user, agent"},
		})
	}
	if len(input.Password) > service.MaxPasswordBytes {
		return domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "password", Message: "password must be at most 72 bytes"},
		})
	}

	if err := srv.limiter.check(ctx, actionSignup, input.IP, email); err != nil {
		return err
	}

	_, err := srv.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		srv.log(ctx).Info("Signup for existing email", slog.String("email", email))

		return errors.Wrap(domainerrors.ErrAlreadyExists, "signup rejected")
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return errors.Wrap(err, "failed to look up account")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password during signup")
	}

	token, err := randomHex(verificationBytes)
	if err != nil {
		return err
	}

	pending := &entity.PendingRegistration{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Contact:      input.Contact,
		Role:         role,
	}
	if role == entity.RoleAgent {
		pending.AgencyName = strings.TrimSpace(input.AgencyName)
		pending.LicenseNumber = strings.TrimSpace(input.LicenseNumber)
	}

	if err := srv.storePending(ctx, token, pending); err != nil {
		return err
	}

	srv.dispatch(ctx, &service.Notification{
		Kind: service.NotificationVerifyEmail,
		To:   email,
		Name: pending.Name,
		Data: map[string]string{service.NotificationDataLink: srv.clientURL + "/verify/" + token},
	})

	srv.limiter.mark(ctx, actionSignup, input.IP, email)
	srv.log(ctx).Info("Signup pending verification", slog.String("email", email), slog.String("role", role.String()))

	return nil
}

// storePending replaces any earlier registration for the same email.
func (srv *authService) storePending(ctx context.Context, token string, pending *entity.PendingRegistration) error {
	emailKey := signupEmailKey(pending.Email)

	previous, err := srv.store.Get(ctx, emailKey)
	switch {
	case err == nil:
		if err := srv.store.Delete(ctx, signupTokenKey(string(previous))); err != nil {
			return errors.Wrap(err, "failed to drop previous verification token")
		}
	case !errors.Is(err, repository.ErrEphemeralKeyNotFound):
		return errors.Wrap(err, "failed to look up previous verification token")
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return errors.Wrap(err, "failed to encode pending registration")
	}

	if err := srv.store.Set(ctx, signupTokenKey(token), payload, srv.verificationTTL); err != nil {
		return errors.Wrap(err, "failed to store pending registration")
	}
	if err := srv.store.Set(ctx, emailKey, []byte(token), srv.verificationTTL); err != nil {
		return errors.Wrap(err, "failed to store verification pointer")
	}

	return nil
}

// ConfirmSignup turns a pending registration into an account.
func (srv *authService) ConfirmSignup(ctx context.Context, token string) (*entity.Account, error) {
	if token == "" {
		return nil, errors.Wrap(domainerrors.ErrExpired, "verification token missing")
	}

	payload, err := srv.store.Get(ctx, signupTokenKey(token))
	if err != nil {
		if errors.Is(err, repository.ErrEphemeralKeyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrExpired, "verification token unknown or expired")
		}

		return nil, errors.Wrap(err, "failed to load pending registration")
	}

	var pending entity.PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, errors.Wrap(err, "failed to decode pending registration")
	}

	if _, err := srv.accountRepo.FindByEmail(ctx, pending.Email); err == nil {
		srv.clearPending(ctx, token, pending.Email)

		return nil, errors.Wrap(domainerrors.ErrAlreadyExists, "email verified after another account took it")
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, errors.Wrap(err, "failed to look up account")
	}

	account := entity.NewAccount(&pending)
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountAlreadyExists) {
			srv.clearPending(ctx, token, pending.Email)

			return nil, errors.Wrap(domainerrors.ErrAlreadyExists, "concurrent verification for the same email")
		}

		return nil, errors.Wrap(err, "failed to create account")
	}

	srv.clearPending(ctx, token, pending.Email)
	srv.log(ctx).Info("Account created", slog.Any("accountID", account.ID), slog.String("role", account.Role.String()))

	return account, nil
}

// clearPending deletes the registration, and the email pointer only while it still references token.
func (srv *authService) clearPending(ctx context.Context, token, email string) {
	if err := srv.store.Delete(ctx, signupTokenKey(token)); err != nil {
		srv.log(ctx).Warn("Failed to delete pending registration", slog.Any("error", err))
	}

	emailKey := signupEmailKey(email)
	current, err := srv.store.Get(ctx, emailKey)
	if err != nil || string(current) != token {
		return
	}
	if err := srv.store.Delete(ctx, emailKey); err != nil {
		srv.log(ctx).Warn("Failed to delete verification pointer", slog.Any("error", err))
	}
}

// Login checks the password and mails a one-time code. No tokens are issued here.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) error {
	email := normalizeEmail(input.Email)

	if err := srv.limiter.check(ctx, actionLogin, input.IP, email); err != nil {
		return err
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to look up account")
		}

		if hash, hashErr := srv.dummyHash(); hashErr == nil {
			srv.hasher.Check(input.Password, hash)
		}
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !account.IsApproved() {
		srv.log(ctx).Info("Login blocked pending approval", slog.Any("accountID", account.ID))

		return errors.Wrap(domainerrors.ErrPendingApproval, "agent not approved")
	}

	if err := srv.issueOTP(ctx, account); err != nil {
		return err
	}

	srv.limiter.mark(ctx, actionLogin, input.IP, email)

	return nil
}

// VerifyOTP consumes the code and starts a session.
func (srv *authService) VerifyOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*usecase.LoginResult, error) {
	email := normalizeEmail(input.Email)

	stored, err := srv.store.Get(ctx, otpKey(email))
	if err != nil {
		if errors.Is(err, repository.ErrEphemeralKeyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrExpired, "login code unknown or expired")
		}

		return nil, errors.Wrap(err, "failed to load login code")
	}

	if !secretsEqual(string(stored), strings.TrimSpace(input.Code)) {
		srv.log(ctx).Warn("Login code mismatch", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidOTP, "login code mismatch")
	}

	if err := srv.store.Delete(ctx, otpKey(email)); err != nil {
		return nil, errors.Wrap(err, "failed to consume login code")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "account disappeared after login")
		}

		return nil, errors.Wrap(err, "failed to look up account")
	}
	if !account.IsApproved() {
		return nil, errors.Wrap(domainerrors.ErrPendingApproval, "agent approval revoked during login")
	}

	tokens, err := srv.sessions.IssueSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.Any("accountID", account.ID))

	return &usecase.LoginResult{Account: account, Tokens: tokens}, nil
}

// ResendOTP replaces the login code for an existing, approved account.
func (srv *authService) ResendOTP(ctx context.Context, input *usecase.ResendOTPInput) error {
	email := normalizeEmail(input.Email)

	if err := srv.limiter.check(ctx, actionResendOTP, input.IP, email); err != nil {
		return err
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound.WithMessage("No account found with this email"), "resend for unknown email")
		}

		return errors.Wrap(err, "failed to look up account")
	}

	if !account.IsApproved() {
		return errors.Wrap(domainerrors.ErrPendingApproval, "agent not approved")
	}

	if err := srv.issueOTP(ctx, account); err != nil {
		return err
	}

	srv.limiter.mark(ctx, actionResendOTP, input.IP, email)

	return nil
}

func (srv *authService) issueOTP(ctx context.Context, account *entity.Account) error {
	code, err := randomDigits(otpDigits)
	if err != nil {
		return err
	}

	if err := srv.store.Set(ctx, otpKey(account.Email), []byte(code), srv.otpTTL); err != nil {
		return errors.Wrap(err, "failed to store login code")
	}

	srv.dispatch(ctx, &service.Notification{
		Kind: service.NotificationLoginOTP,
		To:   account.Email,
		Name: account.Name,
		Data: map[string]string{service.NotificationDataCode: code},
	})

	return nil
}

// dispatch sends the notification and only logs a failure.
func (srv *authService) dispatch(ctx context.Context, n *service.Notification) {
	if err := srv.dispatcher.Dispatch(ctx, n); err != nil {
		srv.log(ctx).Error("Failed to dispatch notification",
			slog.String("kind", string(n.Kind)),
			slog.String("to", n.To),
			slog.Any("error", err),
		)
	}
}
