package task_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	task_repo "github.com/neolist/neolist/internal/repo/task-repo"
	"github.com/stretchr/testify/mock"
)

var _ task_repo.TaskRepoContract = (*MockTaskRepo)(nil)

type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).(*entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) EnsureListMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, listID, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, task)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListTasks(ctx context.Context, t tx.Tx, listID string) ([]entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).([]entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) GetTask(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) UpdateTask(ctx context.Context, t tx.Tx, taskID string, model task_repo.TaskUpdate) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID, model)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) SetTaskCompleted(ctx context.Context, t tx.Tx, taskID string, completed bool) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID, completed)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) DeleteTask(ctx context.Context, t tx.Tx, taskID string) *app_errors.AppError {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) FindUserByID(ctx context.Context, t tx.Tx, userID string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, userID)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, email)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).([]entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).([]entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) (*entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID, userID)
	return args.Get(0).(*entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) DeleteAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, taskID, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) SetAssigneeCompleted(ctx context.Context, t tx.Tx, taskID, userID string, completed bool) (*entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID, userID, completed)
	return args.Get(0).(*entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertComment(ctx context.Context, t tx.Tx, comment *entity.CommentEntity) (*entity.CommentEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, comment)
	return args.Get(0).(*entity.CommentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListComments(ctx context.Context, t tx.Tx, taskID string) ([]entity.CommentEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).([]entity.CommentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) GetComment(ctx context.Context, t tx.Tx, commentID string) (*entity.CommentEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, commentID)
	return args.Get(0).(*entity.CommentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) DeleteComment(ctx context.Context, t tx.Tx, commentID string) *app_errors.AppError {
	args := m.Called(ctx, t, commentID)
	return args.Get(0).(*app_errors.AppError)
}
