package impl

import (
	"context"
	"log/slog"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"
)

var rateMarker = []byte("1")

// rateLimiter allows one sensitive action per (action, ip, email) per interval.
// Store failures let the request through.
type rateLimiter struct {
	store    repository.EphemeralStore
	enabled  bool
	interval time.Duration
	logger   *slog.Logger
}

func newRateLimiter(store repository.EphemeralStore, cfg *config.Config, logger *slog.Logger) *rateLimiter {
	rl := &rateLimiter{store: store, logger: logger}
	if cfg != nil && cfg.Auth != nil {
		rl.enabled = cfg.Auth.RateLimit.Enabled
		rl.interval = cfg.Auth.RateLimit.Interval
	}
	if rl.interval <= 0 {
		rl.enabled = false
	}

	return rl
}

// check fails with a RateLimitedError while a marker exists.
func (rl *rateLimiter) check(ctx context.Context, action, ip, email string) error {
	if !rl.enabled {
		return nil
	}

	_, err := rl.store.Get(ctx, rateLimitKey(action, ip, email))
	switch {
	case err == nil:
		return domainerrors.NewRateLimitedError(rl.interval)
	case errors.Is(err, repository.ErrEphemeralKeyNotFound):
		return nil
	default:
		deliverycontext.GetLoggerOrDefault(ctx, rl.logger).Warn("Rate limit lookup failed, allowing request",
			slog.String("action", action),
			slog.Any("error", err),
		)

		return nil
	}
}

// mark starts the interval after a successful action.
func (rl *rateLimiter) mark(ctx context.Context, action, ip, email string) {
	if !rl.enabled {
		return
	}

	if err := rl.store.Set(ctx, rateLimitKey(action, ip, email), rateMarker, rl.interval); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, rl.logger).Warn("Failed to set rate limit marker",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
