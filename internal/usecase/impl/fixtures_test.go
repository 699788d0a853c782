package impl

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/infra/auth"
	"estate/internal/infra/cache"
	"estate/internal/infra/qrcode"
	"estate/internal/testutil"
	"estate/internal/usecase"

	"github.com/stretchr/testify/require"
)

const testClientURL = "https://estate.example"

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fixtures wires the usecases against the in-memory store, the real token and
// bcrypt services, and recording fakes for the outbound side.
type fixtures struct {
	cfg        *config.Config
	clock      *testutil.Clock
	store      *cache.MemoryStore
	accounts   *testutil.AccountRepository
	properties *testutil.PropertyRepository
	dispatcher *testutil.RecordingDispatcher
	publisher  *testutil.RecordingPublisher
	hasher     service.PasswordHasher
	tokens     service.TokenService

	auth       usecase.AuthUsecase
	sessions   usecase.SessionUsecase
	moderation usecase.ModerationUsecase
	listings   usecase.PropertyUsecase
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			VerificationTTL: 5 * time.Minute,
			OTPTTL:          5 * time.Minute,
			RateLimit: config.RateLimitConfig{
				Enabled:  true,
				Interval: 60 * time.Second,
			},
		},
		App:    &config.AppConfig{ClientURL: testClientURL + "/"},
		QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "M", BaseURL: testClientURL},
	}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	return cfg
}

func newFixtures(t *testing.T, mutate ...func(*config.Config)) *fixtures {
	t.Helper()

	cfg := newTestConfig()
	for _, m := range mutate {
		m(cfg)
	}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	clock := testutil.NewClock(testStart)
	f := &fixtures{
		cfg:        cfg,
		clock:      clock,
		store:      cache.NewMemoryStore(clock.Now),
		accounts:   testutil.NewAccountRepository(),
		properties: testutil.NewPropertyRepository(),
		dispatcher: &testutil.RecordingDispatcher{},
		publisher:  &testutil.RecordingPublisher{},
		hasher:     auth.NewBcryptHasher(cfg),
		tokens:     tokens,
	}
	logger := newDiscardLogger()

	f.sessions = NewSessionService(SessionServiceParams{
		AccountRepo:  f.accounts,
		Store:        f.store,
		TokenService: f.tokens,
		Logger:       logger,
	})
	f.auth = NewAuthService(AuthServiceParams{
		AccountRepo: f.accounts,
		Store:       f.store,
		Hasher:      f.hasher,
		Dispatcher:  f.dispatcher,
		Sessions:    f.sessions,
		Config:      cfg,
		Logger:      logger,
	})
	moderation := NewModerationService(ModerationServiceParams{
		AccountRepo:  f.accounts,
		PropertyRepo: f.properties,
		Dispatcher:   f.dispatcher,
		Publisher:    f.publisher,
		Logger:       logger,
	})
	moderation.(*moderationService).now = clock.Now
	f.moderation = moderation
	f.listings = NewPropertyService(PropertyServiceParams{
		PropertyRepo: f.properties,
		QRCode:       qrcode.NewFromConfig(cfg),
		Logger:       logger,
	})

	return f
}

// verificationToken extracts the token from the last verification link mailed to email.
func (f *fixtures) verificationToken(t *testing.T, email string) string {
	t.Helper()

	n, ok := f.dispatcher.Last(service.NotificationVerifyEmail, email)
	require.True(t, ok, "no verification email sent to %s", email)

	link := n.Data[service.NotificationDataLink]
	prefix := testClientURL + "/verify/"
	require.True(t, strings.HasPrefix(link, prefix), "unexpected link %q", link)

	return strings.TrimPrefix(link, prefix)
}

// loginCode returns the last code mailed to email.
func (f *fixtures) loginCode(t *testing.T, email string) string {
	t.Helper()

	n, ok := f.dispatcher.Last(service.NotificationLoginOTP, email)
	require.True(t, ok, "no login code sent to %s", email)

	return n.Data[service.NotificationDataCode]
}
