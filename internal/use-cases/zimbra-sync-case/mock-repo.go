package zimbra_sync_case

import (
	"context"
	"time"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/mock"
)

type MockSyncRepo struct {
	mock.Mock
}

func (m *MockSyncRepo) GetTask(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID)
	return args.Get(0).([]entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) FindAssigneeByEmail(ctx context.Context, taskID, email string) (*entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, taskID, email)
	return args.Get(0).(*entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) SetExternalTaskID(ctx context.Context, taskID, userID, externalID string) *app_errors.AppError {
	args := m.Called(ctx, taskID, userID, externalID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockSyncRepo) DeleteAssignees(ctx context.Context, t tx.Tx, taskID string, userIDs []string) *app_errors.AppError {
	args := m.Called(ctx, t, taskID, userIDs)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockSyncRepo) InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, taskID, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockSyncRepo) InsertQueueEntry(ctx context.Context, t tx.Tx, entry *entity.SyncQueueEntry) *app_errors.AppError {
	args := m.Called(ctx, t, entry)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockSyncRepo) FailStaleClaims(ctx context.Context, olderThan time.Duration) (int64, *app_errors.AppError) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) ClaimPending(ctx context.Context, batchSize int) ([]entity.SyncQueueEntry, *app_errors.AppError) {
	args := m.Called(ctx, batchSize)
	return args.Get(0).([]entity.SyncQueueEntry), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) FinishEntry(ctx context.Context, id string, status entity.SyncStatus, externalID, lastError *string) (bool, *app_errors.AppError) {
	args := m.Called(ctx, id, status, externalID, lastError)
	return args.Bool(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) GetQueueEntry(ctx context.Context, id string) (*entity.SyncQueueEntry, *app_errors.AppError) {
	args := m.Called(ctx, id)
	return args.Get(0).(*entity.SyncQueueEntry), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) ListQueueEntries(ctx context.Context, status entity.SyncStatus, limit, offset int) ([]entity.SyncQueueEntry, *app_errors.AppError) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]entity.SyncQueueEntry), args.Get(1).(*app_errors.AppError)
}

func (m *MockSyncRepo) CountQueueByStatus(ctx context.Context) ([]entity.SyncQueueStats, *app_errors.AppError) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.SyncQueueStats), args.Get(1).(*app_errors.AppError)
}
