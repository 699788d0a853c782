package cache

import (
	"context"
	"log/slog"
	"time"

	"estate/config"
	"estate/internal/domain/lifecycle"
	"estate/internal/domain/repository"
	"estate/internal/errors"

	"go.uber.org/fx"
)

const janitorInterval = time.Minute

// Params holds dependencies for the ephemeral store, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewEphemeralStore picks the backend from cache.driver.
// Without a cache section the in-memory store is used, which only suits a single instance.
func NewEphemeralStore(params Params) (repository.EphemeralStore, error) {
	cfg := params.Config.Cache
	logger := params.Logger

	if cfg == nil || cfg.Driver == "" {
		logger.Warn("Cache not configured, using in-memory ephemeral store (single instance only)")

		return newMemoryBackend(params.Lc), nil
	}

	switch cfg.Driver {
	case config.CacheDriverMemory:
		logger.Info("Using in-memory ephemeral store")

		return newMemoryBackend(params.Lc), nil

	case config.CacheDriverRedis:
		if cfg.URL == "" {
			return nil, errors.New("cache url is required for redis driver")
		}

		client, err := Connect(cfg.URL)
		if err != nil {
			return nil, err
		}
		store := NewRedisStore(client, cfg.KeyPrefix)

		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				if err := store.Ping(ctx); err != nil {
					return errors.Wrap(err, "failed to ping redis")
				}
				logger.Info("Connected to redis ephemeral store")

				return nil
			},
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})

		return store, nil

	default:
		return nil, errors.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}

func newMemoryBackend(lc fx.Lifecycle) *MemoryStore {
	store := NewMemoryStore(nil)
	janitorCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go store.RunJanitor(janitorCtx, janitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()

			return nil
		},
	})

	return store
}
