package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ServerOptions struct {
	Concurrency     int
	ShutdownTimeout time.Duration
}

func NewWorkerServer(redis *redis.Client, opts ServerOptions) *asynq.Server {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	return asynq.NewServer(
		asynqRedisOpt(redis),
		asynq.Config{
			Concurrency: opts.Concurrency,
			Queues: map[string]int{
				worker_task.QueueSync: 6,
				"default":             3,
				"low":                 1,
			},
			RetryDelayFunc:  drainRetryDelay,
			ShutdownTimeout: opts.ShutdownTimeout,
			Logger:          newZerologAdapter(log.With().Str("component", "asynq_server").Logger()),
			LogLevel:        asynq.WarnLevel,
			ErrorHandler:    asynq.ErrorHandlerFunc(logTaskFailure),
		},
	)
}

// logTaskFailure loggt erst beim letzten Versuch auf Error-Level.
func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)

	ev := log.Warn()
	if retried >= maxRetry {
		ev = log.Error()
	}
	ev.Err(err).
		Str("task", task.Type()).
		Str("task_id", taskID).
		Int("retry", retried).
		Int("max_retry", maxRetry).
		Bytes("payload", task.Payload()).
		Msg("task failed")
}

func NewScheduler(redis *redis.Client) *asynq.Scheduler {
	return asynq.NewScheduler(
		asynqRedisOpt(redis),
		&asynq.SchedulerOpts{
			Location:        time.UTC,
			Logger:          newZerologAdapter(log.With().Str("component", "asynq_scheduler").Logger()),
			LogLevel:        asynq.WarnLevel,
			PostEnqueueFunc: logCronEnqueue,
		},
	)
}

// Ein noch laufender Drain blockiert den nächsten Cron-Lauf; das ist kein Fehler.
func logCronEnqueue(info *asynq.TaskInfo, err error) {
	if err == nil || errors.Is(err, asynq.ErrDuplicateTask) {
		return
	}
	ev := log.Warn().Err(err)
	if info != nil {
		ev = ev.Str("task", info.Type).Str("queue", info.Queue)
	}
	ev.Msg("cron enqueue failed")
}
