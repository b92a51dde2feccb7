package user_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	user_repo "github.com/neolist/neolist/internal/repo/user-repo"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByUserID(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, t tx.Tx, userID string, model user_repo.UserUpdate) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, userID, model)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockUserRepo) Deactivate(ctx context.Context, t tx.Tx, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockUserRepo) ListUsers(ctx context.Context, limit, offset int) ([]entity.UserEntity, int64, *app_errors.AppError) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]entity.UserEntity), args.Get(1).(int64), args.Get(2).(*app_errors.AppError)
}

func (m *MockUserRepo) SetRole(ctx context.Context, t tx.Tx, userID string, role entity.UserRole) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, userID, role)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockUserRepo) ListAssignments(ctx context.Context, t tx.Tx, userID string) ([]entity.TaskAssignment, *app_errors.AppError) {
	args := m.Called(ctx, t, userID)
	return args.Get(0).([]entity.TaskAssignment), args.Get(1).(*app_errors.AppError)
}
