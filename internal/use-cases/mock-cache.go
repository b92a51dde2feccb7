package use_cases

import (
	"context"
	"time"

	"github.com/neolist/neolist/internal/abstraction/cache"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/mock"
)

var _ cache.Cache = (*MockCache)(nil)

// MockCache: dest wird in Tests über .Run(...) befüllt.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError {
	args := m.Called(ctx, key, value, ttl)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
