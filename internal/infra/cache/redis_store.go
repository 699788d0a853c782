// Package cache provides the ephemeral TTL store backends.
package cache

import (
	"context"
	"strings"
	"time"

	"estate/internal/domain/repository"
	"estate/internal/errors"

	"github.com/redis/go-redis/v9"
)

// Connect initializes a Redis client from a redis:// URL or a plain host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}

		return redis.NewClient(opt), nil
	}

	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisStore implements repository.EphemeralStore with Redis string keys and native expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps the client. Every key is namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

var _ repository.EphemeralStore = (*RedisStore)(nil)

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrEphemeralKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get %s", key)
	}

	return raw, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.Errorf("ttl must be positive for key %s", key)
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Wrapf(err, "redis del %s", key)
	}

	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return errors.WithStack(s.client.Ping(ctx).Err())
}

// Close releases the client connections.
func (s *RedisStore) Close() error {
	return errors.WithStack(s.client.Close())
}
