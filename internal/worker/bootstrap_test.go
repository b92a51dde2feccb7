package worker

import (
	"testing"

	"github.com/hibiken/asynq"
	worker_handler "github.com/neolist/neolist/internal/worker/handlers"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/stretchr/testify/assert"
)

func TestRegisterWorkerHandlers_DrainTaskRouted(t *testing.T) {
	mux := asynq.NewServeMux()
	RegisterWorkerHandlers(mux, worker_handler.NewWorkerHandler(nil, 10))

	_, pattern := mux.Handler(asynq.NewTask(worker_task.TaskDrainSyncQueue, nil))
	assert.Equal(t, worker_task.TaskDrainSyncQueue, pattern)
}
