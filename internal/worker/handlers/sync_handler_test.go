package worker_handler

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	app_errors "github.com/neolist/neolist/internal/errors"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noErr = (*app_errors.AppError)(nil)

func TestDrainSyncQueue_UsesDefaultBatchSize(t *testing.T) {
	sync := new(zimbra_sync_case.MockZimbraSyncService)
	wh := NewWorkerHandler(sync, 25)

	sync.On("DrainQueue", context.Background(), 25).
		Return(&zimbra_sync_case.DrainReport{Claimed: 2, Done: 2}, noErr)

	err := wh.DrainSyncQueue()(context.Background(), asynq.NewTask(worker_task.TaskDrainSyncQueue, nil))

	require.NoError(t, err)
	sync.AssertExpectations(t)
}

func TestDrainSyncQueue_PayloadBatchSizeWins(t *testing.T) {
	sync := new(zimbra_sync_case.MockZimbraSyncService)
	wh := NewWorkerHandler(sync, 25)

	p, _ := json.Marshal(&worker_task.DrainSyncQueuePayload{BatchSize: 5, Reason: "admin"})
	sync.On("DrainQueue", context.Background(), 5).
		Return(&zimbra_sync_case.DrainReport{}, noErr)

	err := wh.DrainSyncQueue()(context.Background(), asynq.NewTask(worker_task.TaskDrainSyncQueue, p))

	require.NoError(t, err)
	sync.AssertExpectations(t)
}

func TestDrainSyncQueue_InvalidPayloadSkipsRetry(t *testing.T) {
	sync := new(zimbra_sync_case.MockZimbraSyncService)
	wh := NewWorkerHandler(sync, 25)

	err := wh.DrainSyncQueue()(context.Background(), asynq.NewTask(worker_task.TaskDrainSyncQueue, []byte("{kaputt")))

	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	sync.AssertNotCalled(t, "DrainQueue")
}

func TestDrainSyncQueue_PropagatesDrainError(t *testing.T) {
	sync := new(zimbra_sync_case.MockZimbraSyncService)
	wh := NewWorkerHandler(sync, 25)

	sync.On("DrainQueue", context.Background(), 25).
		Return((*zimbra_sync_case.DrainReport)(nil), app_errors.Internal(errors.New("db down")))

	err := wh.DrainSyncQueue()(context.Background(), asynq.NewTask(worker_task.TaskDrainSyncQueue, nil))

	require.Error(t, err)
}
