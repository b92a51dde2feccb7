package zimbra_sync_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type ZimbraSyncServiceContract interface {
	PropagateCreate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult
	PropagateUpdate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult
	PropagateDelete(ctx context.Context, email, externalID string) entity.SyncResult
	Reassign(ctx context.Context, task *entity.TaskEntity, oldAssignees []entity.AssigneeEntity, newAssignee *entity.AssigneeEntity) ([]entity.SyncResult, *app_errors.AppError)
	ForceSyncAll(ctx context.Context, taskID string) ([]entity.SyncResult, *app_errors.AppError)
	Enqueue(ctx context.Context, t tx.Tx, taskID, email string, action entity.SyncAction, payload entity.SyncPayload) (*entity.SyncQueueEntry, *app_errors.AppError)
	DrainQueue(ctx context.Context, batchSize int) (*DrainReport, *app_errors.AppError)
	RetryEntry(ctx context.Context, entryID string) (*entity.SyncQueueEntry, *app_errors.AppError)
}

type DrainReport struct {
	Claimed int   `json:"claimed"`
	Done    int   `json:"done"`
	Failed  int   `json:"failed"`
	Retried int   `json:"retried"`
	Stale   int64 `json:"stale"`
}
