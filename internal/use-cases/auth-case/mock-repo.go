package auth_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/mock"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CountUsersByEmail(ctx context.Context, email string) (int64, *app_errors.AppError) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockAuthRepo) CountUsers(ctx context.Context) (int64, *app_errors.AppError) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockAuthRepo) SaveUser(ctx context.Context, t tx.Tx, model entity.UserEntity) (string, *app_errors.AppError) {
	args := m.Called(ctx, t, model)
	return args.String(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockAuthRepo) FindByEmail(ctx context.Context, email string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, email)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}
