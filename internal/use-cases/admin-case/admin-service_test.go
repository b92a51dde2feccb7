package admin_case

import (
	"context"
	"errors"
	"testing"

	admin_dto "github.com/neolist/neolist/internal/dtos/admin-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	use_cases "github.com/neolist/neolist/internal/use-cases"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var noErr = (*app_errors.AppError)(nil)

func newTestAdminService() (*AdminService, *zimbra_sync_case.MockSyncRepo, *zimbra_sync_case.MockZimbraSyncService, *use_cases.MockTaskQueue) {
	repo := new(zimbra_sync_case.MockSyncRepo)
	sync := new(zimbra_sync_case.MockZimbraSyncService)
	q := new(use_cases.MockTaskQueue)
	return &AdminService{repo: repo, sync: sync, queue: q}, repo, sync, q
}

func TestForceSync_SummarisesResults(t *testing.T) {
	ctx := context.Background()
	s, _, sync, _ := newTestAdminService()

	sync.On("ForceSyncAll", ctx, "task-1").Return([]entity.SyncResult{
		{Email: "a@klinik.de", Status: entity.SyncResultUpdated},
		{Email: "b@klinik.de", Status: entity.SyncResultRecreated},
		{Email: "c@klinik.de", Status: entity.SyncResultUpdated},
		{Email: "d@klinik.de", Status: entity.SyncResultSkipped, Error: "sync disabled"},
	}, noErr)

	resp, err := s.ForceSync(ctx, "task-1")

	require.Nil(t, err)
	assert.Len(t, resp.Results, 4)
	assert.Equal(t, 2, resp.Summary[entity.SyncResultUpdated])
	assert.Equal(t, 1, resp.Summary[entity.SyncResultRecreated])
	assert.Equal(t, 1, resp.Summary[entity.SyncResultSkipped])
}

func TestForceSync_UnknownTask(t *testing.T) {
	ctx := context.Background()
	s, _, sync, _ := newTestAdminService()

	sync.On("ForceSyncAll", ctx, "task-x").Return([]entity.SyncResult(nil), app_errors.NotFound("task_not_found"))

	_, err := s.ForceSync(ctx, "task-x")

	require.NotNil(t, err)
	assert.Equal(t, "task_not_found", err.MessageKey)
}

func TestListQueueEntries_DefaultsAndOffset(t *testing.T) {
	ctx := context.Background()
	s, repo, _, _ := newTestAdminService()

	repo.On("ListQueueEntries", ctx, entity.SyncFailed, 10, 20).Return([]entity.SyncQueueEntry{{ID: "q-1"}}, noErr)
	repo.On("ListQueueEntries", ctx, entity.SyncStatus(""), 50, 0).Return([]entity.SyncQueueEntry(nil), noErr)

	resp, err := s.ListQueueEntries(ctx, admin_dto.ListQueueQuery{Status: "FAILED", Page: 3, Limit: 10})
	require.Nil(t, err)
	assert.Len(t, resp.Entries, 1)

	all, err := s.ListQueueEntries(ctx, admin_dto.ListQueueQuery{})
	require.Nil(t, err)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 50, all.Limit)
	assert.NotNil(t, all.Entries)
}

func TestQueueStats_FillsMissingStatuses(t *testing.T) {
	ctx := context.Background()
	s, repo, _, _ := newTestAdminService()

	repo.On("CountQueueByStatus", ctx).Return([]entity.SyncQueueStats{
		{Status: entity.SyncDone, Count: 40},
		{Status: entity.SyncFailed, Count: 2},
	}, noErr)

	resp, err := s.QueueStats(ctx)

	require.Nil(t, err)
	require.Len(t, resp.Stats, 4)
	assert.Equal(t, entity.SyncQueueStats{Status: entity.SyncPending, Count: 0}, resp.Stats[0])
	assert.Equal(t, int64(40), resp.Stats[2].Count)
	assert.Equal(t, int64(42), resp.Total)
}

func TestRetryEntry_KicksDrainEvenIfKickFails(t *testing.T) {
	ctx := context.Background()
	s, _, sync, q := newTestAdminService()

	sync.On("RetryEntry", ctx, "q-1").Return(&entity.SyncQueueEntry{ID: "q-2", Status: entity.SyncPending, Attempt: 2}, noErr)
	q.On("EnqueueDrainSyncQueue", "admin_retry").Return(errors.New("redis weg"))

	entry, err := s.RetryEntry(ctx, "q-1")

	require.Nil(t, err)
	assert.Equal(t, "q-2", entry.ID)
	q.AssertExpectations(t)
}

func TestRetryEntry_NotFailedConflict(t *testing.T) {
	ctx := context.Background()
	s, _, sync, q := newTestAdminService()

	sync.On("RetryEntry", ctx, "q-1").Return((*entity.SyncQueueEntry)(nil), app_errors.Conflict("sync_entry_not_failed", nil))

	_, err := s.RetryEntry(ctx, "q-1")

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrConflict, err.Type)
	q.AssertNotCalled(t, "EnqueueDrainSyncQueue", mock.Anything)
}

func TestTriggerDrain_SurfacesQueueError(t *testing.T) {
	s, _, _, q := newTestAdminService()

	q.On("EnqueueDrainSyncQueue", "admin_manual").Return(errors.New("redis weg"))

	err := s.TriggerDrain(context.Background())

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrInternal, err.Type)
}
