package worker_handler

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	worker_task "github.com/neolist/neolist/internal/worker/tasks"
	"github.com/rs/zerolog/log"
)

// DrainSyncQueue arbeitet einen Batch der Sync-Queue ab. Fehlschläge einzelner
// Einträge landen in der Queue selbst; nur ein Fehler des Drains an sich wird an
// asynq gemeldet.
func (wh *WorkerHandler) DrainSyncQueue() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload worker_task.DrainSyncQueuePayload
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &payload); err != nil {
				log.Error().Err(err).Msg("Worker handler: ungültiger Drain-Payload")
				return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
			}
		}

		batchSize := payload.BatchSize
		if batchSize <= 0 {
			batchSize = wh.batchSize
		}

		report, err := wh.sync.DrainQueue(ctx, batchSize)
		if err != nil {
			log.Error().Err(err).Msg("Worker handler: Sync-Queue konnte nicht abgearbeitet werden")
			return err
		}

		if report.Claimed > 0 || report.Stale > 0 {
			log.Info().
				Str("reason", payload.Reason).
				Int("claimed", report.Claimed).
				Int("done", report.Done).
				Int("failed", report.Failed).
				Int("retried", report.Retried).
				Int64("stale", report.Stale).
				Msg("Sync-Queue abgearbeitet")
		}
		return nil
	}
}
