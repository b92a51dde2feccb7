package sync_repo

import (
	"context"
	"time"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type SyncRepoContract interface {
	GetTask(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError)
	ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError)
	FindAssigneeByEmail(ctx context.Context, taskID, email string) (*entity.AssigneeEntity, *app_errors.AppError)
	SetExternalTaskID(ctx context.Context, taskID, userID, externalID string) *app_errors.AppError
	DeleteAssignees(ctx context.Context, t tx.Tx, taskID string, userIDs []string) *app_errors.AppError
	InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError

	InsertQueueEntry(ctx context.Context, t tx.Tx, entry *entity.SyncQueueEntry) *app_errors.AppError
	FailStaleClaims(ctx context.Context, olderThan time.Duration) (int64, *app_errors.AppError)
	ClaimPending(ctx context.Context, batchSize int) ([]entity.SyncQueueEntry, *app_errors.AppError)
	FinishEntry(ctx context.Context, id string, status entity.SyncStatus, externalID, lastError *string) (bool, *app_errors.AppError)
	GetQueueEntry(ctx context.Context, id string) (*entity.SyncQueueEntry, *app_errors.AppError)
	ListQueueEntries(ctx context.Context, status entity.SyncStatus, limit, offset int) ([]entity.SyncQueueEntry, *app_errors.AppError)
	CountQueueByStatus(ctx context.Context) ([]entity.SyncQueueStats, *app_errors.AppError)
}
