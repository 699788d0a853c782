package impl

import (
	"context"
	"time"

	"estate/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// mockStore is a testify mock of repository.EphemeralStore for backend failure paths.
type mockStore struct {
	mock.Mock
}

var _ repository.EphemeralStore = (*mockStore)(nil)

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)

	return value, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
