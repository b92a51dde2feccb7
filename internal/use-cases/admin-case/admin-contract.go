package admin_case

import (
	"context"

	admin_dto "github.com/neolist/neolist/internal/dtos/admin-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type AdminServiceContract interface {
	ForceSync(ctx context.Context, taskID string) (*admin_dto.ForceSyncResponse, *app_errors.AppError)
	ListQueueEntries(ctx context.Context, query admin_dto.ListQueueQuery) (*admin_dto.QueueEntriesResponse, *app_errors.AppError)
	QueueStats(ctx context.Context) (*admin_dto.QueueStatsResponse, *app_errors.AppError)
	RetryEntry(ctx context.Context, entryID string) (*entity.SyncQueueEntry, *app_errors.AppError)
	TriggerDrain(ctx context.Context) *app_errors.AppError
}
