package zimbra_sync_case

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/rs/zerolog/log"
)

// Enqueue legt einen PENDING-Eintrag an. Mit t läuft das Insert in der
// Transaktion des Aufrufers.
func (s *ZimbraSyncService) Enqueue(ctx context.Context, t tx.Tx, taskID, email string, action entity.SyncAction, payload entity.SyncPayload) (*entity.SyncQueueEntry, *app_errors.AppError) {
	email = strings.TrimSpace(email)
	if taskID == "" || email == "" || !action.IsValid() {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{
			{Field: "sync_entry", Reason: "invalid", MessageKey: "validation.sync_entry"},
		})
	}
	if action == entity.SyncDelete && payload.ExternalTaskID == "" {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{
			{Field: "external_task_id", Reason: "required", MessageKey: "validation.required"},
		})
	}

	return s.insertEntry(ctx, t, taskID, email, action, payload, 1, nil, s.now())
}

func (s *ZimbraSyncService) insertEntry(ctx context.Context, t tx.Tx, taskID, email string, action entity.SyncAction, payload entity.SyncPayload, attempt int, retryOf *string, availableAt time.Time) (*entity.SyncQueueEntry, *app_errors.AppError) {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	entry := &entity.SyncQueueEntry{
		ID:          id.String(),
		TaskID:      taskID,
		UserEmail:   email,
		Action:      action,
		Payload:     payload,
		Status:      entity.SyncPending,
		Attempt:     attempt,
		RetryOf:     retryOf,
		AvailableAt: availableAt,
		CreatedAt:   s.now(),
	}
	if err := s.repo.InsertQueueEntry(ctx, t, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DrainQueue verarbeitet einen Batch. Jeder Eintrag wird genau einmal
// abgeschlossen; Wiederholungen sind neue Einträge mit Backoff.
func (s *ZimbraSyncService) DrainQueue(ctx context.Context, batchSize int) (*DrainReport, *app_errors.AppError) {
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}
	report := &DrainReport{}

	if s.cfg.ClaimTimeout > 0 {
		stale, err := s.repo.FailStaleClaims(ctx, s.cfg.ClaimTimeout)
		if err != nil {
			return nil, err
		}
		if stale > 0 {
			log.Warn().Int64("count", stale).Msg("Verwaiste Sync-Einträge als FAILED markiert")
		}
		report.Stale = stale
	}

	entries, err := s.repo.ClaimPending(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	report.Claimed = len(entries)

	for i := range entries {
		if ctx.Err() != nil {
			// Bereits geclaimte Rest-Einträge laufen später über FailStaleClaims.
			break
		}
		e := &entries[i]
		res := s.execute(ctx, e)

		status := entity.SyncDone
		var lastError, externalID *string
		if res.Status == entity.SyncResultFailed {
			status = entity.SyncFailed
			msg := res.Error
			lastError = &msg
		} else if res.Status == entity.SyncResultSkipped && res.Error != "" {
			msg := "skipped: " + res.Error
			lastError = &msg
		}
		if res.ExternalID != "" {
			id := res.ExternalID
			externalID = &id
		}

		ok, finErr := s.repo.FinishEntry(ctx, e.ID, status, externalID, lastError)
		if finErr != nil {
			log.Error().Err(finErr).Str("entry_id", e.ID).Msg("Sync-Eintrag konnte nicht abgeschlossen werden")
			continue
		}
		if !ok {
			log.Warn().Str("entry_id", e.ID).Msg("Sync-Eintrag war nicht mehr IN_PROGRESS")
			continue
		}

		if status == entity.SyncDone {
			report.Done++
			continue
		}
		report.Failed++

		if s.retryable(res.Err) && e.Attempt < s.cfg.MaxAttempts {
			if _, err := s.insertEntry(ctx, nil, e.TaskID, e.UserEmail, e.Action, e.Payload, e.Attempt+1, &e.ID, s.now().Add(s.backoff(e.Attempt))); err != nil {
				log.Error().Err(err).Str("entry_id", e.ID).Msg("Retry konnte nicht angelegt werden")
				continue
			}
			report.Retried++
		}
	}

	log.Info().
		Int("claimed", report.Claimed).
		Int("done", report.Done).
		Int("failed", report.Failed).
		Int("retried", report.Retried).
		Msg("Sync-Queue abgearbeitet")
	return report, nil
}

// execute richtet sich nach dem aktuellen lokalen Stand, nicht nach dem
// Schnappschuss: CREATE mit vorhandener externer ID wird zum Update.
func (s *ZimbraSyncService) execute(ctx context.Context, e *entity.SyncQueueEntry) entity.SyncResult {
	if e.Action == entity.SyncDelete {
		return s.PropagateDelete(ctx, e.UserEmail, e.Payload.ExternalTaskID)
	}

	task, err := s.repo.GetTask(ctx, e.TaskID)
	if err != nil {
		if err.Code == fiber.StatusNotFound {
			return entity.SyncResult{Email: e.UserEmail, Status: entity.SyncResultSkipped, Error: "task not found"}
		}
		return entity.SyncResult{Email: e.UserEmail, Status: entity.SyncResultFailed, Error: err.Error(), Err: fmt.Errorf("%w: %w", errLocal, err)}
	}

	assignee, err := s.repo.FindAssigneeByEmail(ctx, e.TaskID, e.UserEmail)
	if err != nil {
		return entity.SyncResult{Email: e.UserEmail, Status: entity.SyncResultFailed, Error: err.Error(), Err: fmt.Errorf("%w: %w", errLocal, err)}
	}
	if assignee == nil {
		return entity.SyncResult{Email: e.UserEmail, Status: entity.SyncResultSkipped, Error: "assignee not found"}
	}

	if assignee.HasExternalTask() {
		return s.PropagateUpdate(ctx, task, assignee)
	}
	return s.PropagateCreate(ctx, task, assignee)
}

var errLocal = errors.New("local persistence failure")

func (s *ZimbraSyncService) retryable(err error) bool {
	return zimbra.IsTransient(err) || errors.Is(err, errLocal)
}

// backoff: BaseBackoff * 2^(attempt-1), gedeckelt bei einem Tag.
func (s *ZimbraSyncService) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := s.cfg.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 24*time.Hour {
			return 24 * time.Hour
		}
	}
	return d
}

// RetryEntry legt für einen FAILED-Eintrag einen neuen PENDING-Eintrag an.
func (s *ZimbraSyncService) RetryEntry(ctx context.Context, entryID string) (*entity.SyncQueueEntry, *app_errors.AppError) {
	e, err := s.repo.GetQueueEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.Status != entity.SyncFailed {
		return nil, app_errors.Conflict("sync_entry_not_failed", nil)
	}

	return s.insertEntry(ctx, nil, e.TaskID, e.UserEmail, e.Action, e.Payload, e.Attempt+1, &e.ID, s.now())
}
