package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	worker_handler "github.com/neolist/neolist/internal/worker/handlers"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/rs/zerolog/log"
)

const cronUniqueTTL = 30 * time.Second

func RegisterWorkerHandlers(mux *asynq.ServeMux, h *worker_handler.WorkerHandler) {
	mux.HandleFunc(worker_task.TaskDrainSyncQueue, h.DrainSyncQueue())
}

// RegisterCronJobs plant den periodischen Drain. Ein leerer drainCron
// deaktiviert ihn (z. B. wenn nur per Post-Commit-Anstoß gearbeitet wird).
func RegisterCronJobs(s *asynq.Scheduler, drainCron string) error {
	jobs := []struct {
		spec  string
		task  *asynq.Task
		queue string
		desc  string
	}{
		{
			spec:  drainCron,
			task:  asynq.NewTask(worker_task.TaskDrainSyncQueue, []byte(`{"reason":"cron"}`)),
			queue: worker_task.QueueSync,
			desc:  "drain zimbra sync queue",
		},
	}

	for _, job := range jobs {
		if job.spec == "" {
			log.Warn().Msgf("not scheduled: %s", job.desc)
			continue
		}
		if _, err := s.Register(job.spec, job.task, asynq.Queue(job.queue), asynq.Unique(cronUniqueTTL)); err != nil {
			return fmt.Errorf("register %s failed: %w", job.desc, err)
		}
		log.Info().Msgf("scheduled: %s (%s)", job.desc, job.spec)
	}

	return nil
}
