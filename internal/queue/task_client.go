package queue

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// drainUniqueWindow fasst Anstöße aus kurz aufeinander folgenden Commits zusammen.
const drainUniqueWindow = 10 * time.Second

type TaskQueueClient interface {
	EnqueueDrainSyncQueue(reason string) error
}

type TaskQueue struct {
	client *asynq.Client
}

func NewTaskQueue(redis *redis.Client) *TaskQueue {
	return &TaskQueue{
		client: asynq.NewClientFromRedisClient(redis),
	}
}

// EnqueueDrainSyncQueue stößt das Abarbeiten der Sync-Queue an. Ein bereits
// wartender Anstoß ist kein Fehler.
func (q *TaskQueue) EnqueueDrainSyncQueue(reason string) error {
	p, err := json.Marshal(&worker_task.DrainSyncQueuePayload{Reason: reason})
	if err != nil {
		return err
	}
	task := asynq.NewTask(worker_task.TaskDrainSyncQueue, p,
		asynq.Queue(worker_task.QueueSync),
		asynq.Unique(drainUniqueWindow),
		asynq.MaxRetry(0),
	)

	if _, err := q.client.Enqueue(task); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			log.Debug().Str("reason", reason).Msg("Drain bereits eingeplant")
			return nil
		}
		return err
	}
	return nil
}

func (q *TaskQueue) Close() error {
	return q.client.Close()
}
