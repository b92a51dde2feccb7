package zimbra_sync_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/mock"
)

var _ ZimbraSyncServiceContract = (*MockZimbraSyncService)(nil)

// MockZimbraSyncService wird von Aufrufern des Reconcilers (Task-, Admin-Case,
// Worker) in Tests verwendet.
type MockZimbraSyncService struct {
	mock.Mock
}

func (m *MockZimbraSyncService) PropagateCreate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult {
	args := m.Called(ctx, task, assignee)
	return args.Get(0).(entity.SyncResult)
}

func (m *MockZimbraSyncService) PropagateUpdate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult {
	args := m.Called(ctx, task, assignee)
	return args.Get(0).(entity.SyncResult)
}

func (m *MockZimbraSyncService) PropagateDelete(ctx context.Context, email, externalID string) entity.SyncResult {
	args := m.Called(ctx, email, externalID)
	return args.Get(0).(entity.SyncResult)
}

func (m *MockZimbraSyncService) Reassign(ctx context.Context, task *entity.TaskEntity, oldAssignees []entity.AssigneeEntity, newAssignee *entity.AssigneeEntity) ([]entity.SyncResult, *app_errors.AppError) {
	args := m.Called(ctx, task, oldAssignees, newAssignee)
	return args.Get(0).([]entity.SyncResult), args.Get(1).(*app_errors.AppError)
}

func (m *MockZimbraSyncService) ForceSyncAll(ctx context.Context, taskID string) ([]entity.SyncResult, *app_errors.AppError) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]entity.SyncResult), args.Get(1).(*app_errors.AppError)
}

func (m *MockZimbraSyncService) Enqueue(ctx context.Context, t tx.Tx, taskID, email string, action entity.SyncAction, payload entity.SyncPayload) (*entity.SyncQueueEntry, *app_errors.AppError) {
	args := m.Called(ctx, t, taskID, email, action, payload)
	return args.Get(0).(*entity.SyncQueueEntry), args.Get(1).(*app_errors.AppError)
}

func (m *MockZimbraSyncService) DrainQueue(ctx context.Context, batchSize int) (*DrainReport, *app_errors.AppError) {
	args := m.Called(ctx, batchSize)
	return args.Get(0).(*DrainReport), args.Get(1).(*app_errors.AppError)
}

func (m *MockZimbraSyncService) RetryEntry(ctx context.Context, entryID string) (*entity.SyncQueueEntry, *app_errors.AppError) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(*entity.SyncQueueEntry), args.Get(1).(*app_errors.AppError)
}
