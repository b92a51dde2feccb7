package admin_case

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	admin_dto "github.com/neolist/neolist/internal/dtos/admin-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/queue"
	sync_repo "github.com/neolist/neolist/internal/repo/sync-repo"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/rs/zerolog/log"
)

// AdminService: Zugriff wird über die Rollenprüfung im Router geregelt, die
// Abfragen laufen ohne Actor-Kontext.
type AdminService struct {
	repo  sync_repo.SyncRepoContract
	sync  zimbra_sync_case.ZimbraSyncServiceContract
	queue queue.TaskQueueClient
}

func NewAdminService(db *pgxpool.Pool, sync zimbra_sync_case.ZimbraSyncServiceContract, q queue.TaskQueueClient) AdminServiceContract {
	return &AdminService{
		repo:  sync_repo.NewSyncRepo(db),
		sync:  sync,
		queue: q,
	}
}

func (s *AdminService) ForceSync(ctx context.Context, taskID string) (*admin_dto.ForceSyncResponse, *app_errors.AppError) {
	results, err := s.sync.ForceSyncAll(ctx, taskID)
	if err != nil {
		return nil, err
	}

	summary := make(map[entity.SyncResultStatus]int)
	for _, r := range results {
		summary[r.Status]++
	}
	if results == nil {
		results = []entity.SyncResult{}
	}

	return &admin_dto.ForceSyncResponse{TaskID: taskID, Results: results, Summary: summary}, nil
}

func (s *AdminService) ListQueueEntries(ctx context.Context, query admin_dto.ListQueueQuery) (*admin_dto.QueueEntriesResponse, *app_errors.AppError) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 50
	}

	entries, err := s.repo.ListQueueEntries(ctx, entity.SyncStatus(query.Status), query.Limit, (query.Page-1)*query.Limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.SyncQueueEntry{}
	}

	return &admin_dto.QueueEntriesResponse{
		Status:  query.Status,
		Page:    query.Page,
		Limit:   query.Limit,
		Entries: entries,
	}, nil
}

var queueStatuses = []entity.SyncStatus{entity.SyncPending, entity.SyncInProgress, entity.SyncDone, entity.SyncFailed}

func (s *AdminService) QueueStats(ctx context.Context) (*admin_dto.QueueStatsResponse, *app_errors.AppError) {
	rows, err := s.repo.CountQueueByStatus(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.SyncStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	resp := &admin_dto.QueueStatsResponse{Stats: make([]entity.SyncQueueStats, 0, len(queueStatuses))}
	for _, status := range queueStatuses {
		resp.Stats = append(resp.Stats, entity.SyncQueueStats{Status: status, Count: counts[status]})
		resp.Total += counts[status]
	}
	return resp, nil
}

// RetryEntry legt einen neuen PENDING-Eintrag an und stößt den Worker an.
func (s *AdminService) RetryEntry(ctx context.Context, entryID string) (*entity.SyncQueueEntry, *app_errors.AppError) {
	entry, err := s.sync.RetryEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.queue.EnqueueDrainSyncQueue("admin_retry"); err != nil {
		log.Warn().Err(err).Str("entry_id", entry.ID).Msg("Drain der Sync-Queue konnte nicht angestoßen werden")
	}
	return entry, nil
}

func (s *AdminService) TriggerDrain(ctx context.Context) *app_errors.AppError {
	if err := s.queue.EnqueueDrainSyncQueue("admin_manual"); err != nil {
		return app_errors.Internal(err)
	}
	log.Info().Msg("Drain der Sync-Queue manuell angestoßen")
	return nil
}
