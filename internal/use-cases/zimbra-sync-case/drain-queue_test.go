package zimbra_sync_case

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	use_cases "github.com/neolist/neolist/internal/use-cases"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func claimedEntry(action entity.SyncAction, attempt int) entity.SyncQueueEntry {
	return entity.SyncQueueEntry{
		ID:        "q-1",
		TaskID:    "task-1",
		UserEmail: "pflege@klinik.de",
		Action:    action,
		Status:    entity.SyncInProgress,
		Attempt:   attempt,
	}
}

func hasValue(v string) any {
	return mock.MatchedBy(func(s *string) bool { return s != nil && *s == v })
}

func expectNoStale(ctx context.Context, repo *MockSyncRepo) {
	repo.On("FailStaleClaims", ctx, 10*time.Minute).Return(int64(0), noErr)
}

// Ein zweiter Drain sieht den Eintrag nicht mehr: genau ein externer Aufruf.
func TestDrainQueue_EntryIsProcessedOnce(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 1)}, noErr).Once()
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{}, noErr).Once()
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(syncAssignee(), noErr)
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(&zimbra.CreateResult{ExternalID: "ext-1"}, nil).Once()
	repo.On("SetExternalTaskID", ctx, "task-1", "user-1", "ext-1").Return(noErr).Once()
	repo.On("FinishEntry", ctx, "q-1", entity.SyncDone, hasValue("ext-1"), (*string)(nil)).Return(true, noErr).Once()

	first, err := service.DrainQueue(ctx, 0)
	require.Nil(t, err)
	second, err := service.DrainQueue(ctx, 0)
	require.Nil(t, err)

	assert.Equal(t, 1, first.Claimed)
	assert.Equal(t, 1, first.Done)
	assert.Equal(t, 0, second.Claimed)
	adapter.AssertNumberOfCalls(t, "CreateTask", 1)
	repo.AssertExpectations(t)
}

func TestDrainQueue_CreateForLinkedAssigneeBecomesUpdate(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	assignee := syncAssignee()
	assignee.ExternalTaskID = strPtr("ext-1")

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 5).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 1)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(assignee, noErr)
	adapter.On("UpdateTask", ctx, "pflege@klinik.de", "ext-1", mock.Anything).Return(nil)
	repo.On("FinishEntry", ctx, "q-1", entity.SyncDone, hasValue("ext-1"), (*string)(nil)).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 5)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Done)
	adapter.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainQueue_DeleteUsesPayloadExternalID(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()
	entry := claimedEntry(entity.SyncDelete, 1)
	entry.Payload.ExternalTaskID = "ext-7"

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{entry}, noErr)
	adapter.On("DeleteTask", ctx, "pflege@klinik.de", "ext-7").Return(zimbra.ErrNotFound)
	repo.On("FinishEntry", ctx, "q-1", entity.SyncDone, hasValue("ext-7"), (*string)(nil)).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Done)
	repo.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
}

func TestDrainQueue_MissingTaskIsSkipped(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncUpdate, 1)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return((*entity.TaskEntity)(nil), app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil))
	repo.On("FinishEntry", ctx, "q-1", entity.SyncDone, (*string)(nil), hasValue("skipped: task not found")).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Done)
	assert.Empty(t, adapter.Calls)
}

func TestDrainQueue_RemovedAssigneeIsSkipped(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 1)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return((*entity.AssigneeEntity)(nil), noErr)
	repo.On("FinishEntry", ctx, "q-1", entity.SyncDone, (*string)(nil), hasValue("skipped: assignee not found")).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Done)
	assert.Empty(t, adapter.Calls)
}

// Transienter Fehler: FAILED bleibt FAILED, die Wiederholung ist ein neuer
// Eintrag mit Backoff.
func TestDrainQueue_TransientFailureSchedulesRetry(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 2)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(syncAssignee(), noErr)
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, context.DeadlineExceeded)
	repo.On("FinishEntry", ctx, "q-1", entity.SyncFailed, (*string)(nil), mock.Anything).Return(true, noErr)
	repo.On("InsertQueueEntry", ctx, nil, mock.MatchedBy(func(e *entity.SyncQueueEntry) bool {
		return e.Attempt == 3 &&
			e.RetryOf != nil && *e.RetryOf == "q-1" &&
			e.Status == entity.SyncPending &&
			e.Action == entity.SyncCreate &&
			e.AvailableAt.Equal(fixedNow.Add(60*time.Second))
	})).Return(noErr).Once()

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Retried)
	repo.AssertExpectations(t)
}

func TestDrainQueue_NoRetryAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 3)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(syncAssignee(), noErr)
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, &zimbra.StatusError{Code: 503})
	repo.On("FinishEntry", ctx, "q-1", entity.SyncFailed, (*string)(nil), mock.Anything).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Retried)
	repo.AssertNotCalled(t, "InsertQueueEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainQueue_PermanentFailureIsNotRetried(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 1)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(syncAssignee(), noErr)
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, &zimbra.StatusError{Code: 400})
	repo.On("FinishEntry", ctx, "q-1", entity.SyncFailed, (*string)(nil), mock.Anything).Return(true, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 0, report.Retried)
	repo.AssertNotCalled(t, "InsertQueueEntry", mock.Anything, mock.Anything, mock.Anything)
}

// Hat ein anderer Prozess den Eintrag schon abgeschlossen, wird nichts
// wiederholt.
func TestDrainQueue_LostFinishGuard(t *testing.T) {
	ctx := context.Background()
	service, repo, adapter, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{claimedEntry(entity.SyncCreate, 1)}, noErr)
	repo.On("GetTask", ctx, "task-1").Return(sampleTask(), noErr)
	repo.On("FindAssigneeByEmail", ctx, "task-1", "pflege@klinik.de").Return(syncAssignee(), noErr)
	adapter.On("CreateTask", ctx, "pflege@klinik.de", mock.Anything).Return(nil, errors.New("connection reset by peer"))
	repo.On("FinishEntry", ctx, "q-1", entity.SyncFailed, (*string)(nil), mock.Anything).Return(false, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, 0, report.Failed)
	repo.AssertNotCalled(t, "InsertQueueEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainQueue_StaleClaimsAreFailed(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestService()

	repo.On("FailStaleClaims", ctx, 10*time.Minute).Return(int64(2), noErr)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry{}, noErr)

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, err)
	assert.Equal(t, int64(2), report.Stale)
}

func TestDrainQueue_ClaimErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestService()

	expectNoStale(ctx, repo)
	repo.On("ClaimPending", ctx, 10).Return([]entity.SyncQueueEntry(nil), app_errors.Internal(errors.New("db down")))

	report, err := service.DrainQueue(ctx, 0)

	assert.Nil(t, report)
	require.NotNil(t, err)
}

func TestEnqueue_InsertsPendingEntryInCallerTx(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestService()
	mtx := new(use_cases.MockTx)
	payload := entity.NewSyncPayload(sampleTask(), syncAssignee())

	repo.On("InsertQueueEntry", ctx, mtx, mock.MatchedBy(func(e *entity.SyncQueueEntry) bool {
		return e.Status == entity.SyncPending && e.Attempt == 1 && e.Action == entity.SyncUpdate &&
			e.Payload.Title == "Visite Zimmer 12" && e.AvailableAt.Equal(fixedNow) && e.RetryOf == nil
	})).Return(noErr)

	entry, err := service.Enqueue(ctx, mtx, "task-1", "pflege@klinik.de", entity.SyncUpdate, payload)

	assert.Nil(t, err)
	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ID)
	repo.AssertExpectations(t)
}

func TestEnqueue_Validation(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestService()

	_, err := service.Enqueue(ctx, nil, "task-1", "pflege@klinik.de", entity.SyncAction("MOVE"), entity.SyncPayload{})
	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrValidation, err.Type)

	_, err = service.Enqueue(ctx, nil, "task-1", "", entity.SyncCreate, entity.SyncPayload{})
	require.NotNil(t, err)

	_, err = service.Enqueue(ctx, nil, "task-1", "pflege@klinik.de", entity.SyncDelete, entity.SyncPayload{})
	require.NotNil(t, err)
	assert.Equal(t, "external_task_id", err.Details[0].Field)

	repo.AssertNotCalled(t, "InsertQueueEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("failed entry gets a new pending entry", func(t *testing.T) {
		service, repo, _, _ := newTestService()
		failed := claimedEntry(entity.SyncUpdate, 5)
		failed.Status = entity.SyncFailed

		repo.On("GetQueueEntry", ctx, "q-1").Return(&failed, noErr)
		repo.On("InsertQueueEntry", ctx, nil, mock.MatchedBy(func(e *entity.SyncQueueEntry) bool {
			return e.Attempt == 6 && *e.RetryOf == "q-1" && e.AvailableAt.Equal(fixedNow)
		})).Return(noErr)

		entry, err := service.RetryEntry(ctx, "q-1")

		assert.Nil(t, err)
		assert.Equal(t, entity.SyncPending, entry.Status)
	})

	t.Run("done entry cannot be retried", func(t *testing.T) {
		service, repo, _, _ := newTestService()
		done := claimedEntry(entity.SyncUpdate, 1)
		done.Status = entity.SyncDone

		repo.On("GetQueueEntry", ctx, "q-1").Return(&done, noErr)

		_, err := service.RetryEntry(ctx, "q-1")

		require.NotNil(t, err)
		assert.Equal(t, fiber.StatusConflict, err.Code)
		repo.AssertNotCalled(t, "InsertQueueEntry", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBackoff(t *testing.T) {
	service, _, _, _ := newTestService()

	assert.Equal(t, 30*time.Second, service.backoff(1))
	assert.Equal(t, 60*time.Second, service.backoff(2))
	assert.Equal(t, 120*time.Second, service.backoff(3))
	assert.Equal(t, 24*time.Hour, service.backoff(40))
}
