package zimbra_sync_case

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	sync_repo "github.com/neolist/neolist/internal/repo/sync-repo"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
	ClaimTimeout time.Duration
}

type ZimbraSyncService struct {
	repo      sync_repo.SyncRepoContract
	txManager tx.TxManager
	adapter   zimbra.Adapter
	cfg       Config
	now       func() time.Time
}

// NewZimbraSyncService: adapter darf nil sein (Zimbra nicht konfiguriert), dann
// wird jede Zuweisung als skipped gemeldet.
func NewZimbraSyncService(db *pgxpool.Pool, adapter zimbra.Adapter, cfg Config) ZimbraSyncServiceContract {
	return &ZimbraSyncService{
		repo:      sync_repo.NewSyncRepo(db),
		txManager: tx.NewPgxTxManager(db),
		adapter:   adapter,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *ZimbraSyncService) PropagateCreate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult {
	if res, skip := s.precheck(task, assignee); skip {
		return res
	}

	created, err := s.adapter.CreateTask(ctx, assignee.Email, entity.NewSyncPayload(task, assignee))
	if err != nil {
		log.Warn().Err(err).Str("task_id", task.ID).Str("email", assignee.Email).Msg("Zimbra-Aufgabe konnte nicht angelegt werden")
		return failedResult(assignee, err)
	}

	if appErr := s.repo.SetExternalTaskID(ctx, task.ID, assignee.UserID, created.ExternalID); appErr != nil {
		// Unverknüpftes Objekt wieder entfernen, sonst entsteht beim nächsten
		// Lauf ein Duplikat.
		log.Error().Err(appErr).Str("task_id", task.ID).Str("external_id", created.ExternalID).Msg("external_task_id konnte nicht gespeichert werden")
		if delErr := s.adapter.DeleteTask(ctx, assignee.Email, created.ExternalID); delErr != nil && !zimbra.IsNotFound(delErr) {
			log.Error().Err(delErr).Str("external_id", created.ExternalID).Msg("Verwaiste Zimbra-Aufgabe konnte nicht entfernt werden")
		}
		return failedResult(assignee, errors.Join(errWriteBack, appErr))
	}

	id := created.ExternalID
	assignee.ExternalTaskID = &id
	return entity.SyncResult{
		UserID:     assignee.UserID,
		Email:      assignee.Email,
		Status:     entity.SyncResultCreated,
		ExternalID: id,
	}
}

// PropagateUpdate fällt auf ein neues Anlegen zurück, wenn das Objekt extern
// nicht mehr existiert. Bei transienten Fehlern nicht: das Objekt kann noch da
// sein.
func (s *ZimbraSyncService) PropagateUpdate(ctx context.Context, task *entity.TaskEntity, assignee *entity.AssigneeEntity) entity.SyncResult {
	if res, skip := s.precheck(task, assignee); skip {
		return res
	}
	if !assignee.HasExternalTask() {
		return s.PropagateCreate(ctx, task, assignee)
	}

	externalID := *assignee.ExternalTaskID
	updateErr := s.adapter.UpdateTask(ctx, assignee.Email, externalID, entity.NewSyncPayload(task, assignee))
	if updateErr == nil {
		return entity.SyncResult{
			UserID:     assignee.UserID,
			Email:      assignee.Email,
			Status:     entity.SyncResultUpdated,
			ExternalID: externalID,
		}
	}

	if zimbra.IsTransient(updateErr) {
		log.Warn().Err(updateErr).Str("task_id", task.ID).Str("email", assignee.Email).Msg("Zimbra-Update vorübergehend fehlgeschlagen")
		return failedResult(assignee, updateErr)
	}

	log.Info().Err(updateErr).Str("task_id", task.ID).Str("external_id", externalID).Msg("Zimbra-Update fehlgeschlagen, lege Aufgabe neu an")
	res := s.PropagateCreate(ctx, task, assignee)
	if res.Status != entity.SyncResultCreated {
		return failedResult(assignee, errors.Join(updateErr, res.Err))
	}
	res.Status = entity.SyncResultRecreated
	return res
}

// PropagateDelete schluckt Fehler; die lokale Löschung hängt nie davon ab.
// Ohne externe ID findet kein Aufruf statt.
func (s *ZimbraSyncService) PropagateDelete(ctx context.Context, email, externalID string) entity.SyncResult {
	res := entity.SyncResult{Email: email, ExternalID: externalID}
	if email == "" || externalID == "" {
		res.Status = entity.SyncResultSkipped
		res.Error = "no external task"
		return res
	}
	if s.adapter == nil {
		res.Status = entity.SyncResultSkipped
		res.Error = "zimbra not configured"
		return res
	}

	err := s.adapter.DeleteTask(ctx, email, externalID)
	switch {
	case err == nil, zimbra.IsNotFound(err):
		res.Status = entity.SyncResultDeleted
	default:
		log.Warn().Err(err).Str("email", email).Str("external_id", externalID).Msg("Zimbra-Aufgabe konnte nicht gelöscht werden")
		res.Status = entity.SyncResultFailed
		res.Error = err.Error()
		res.Err = err
	}
	return res
}

// Reassign ist gegenüber Zimbra nicht atomar: erst werden die alten Objekte
// gelöscht, dann die Zuweisungen getauscht, dann das neue Objekt angelegt.
func (s *ZimbraSyncService) Reassign(ctx context.Context, task *entity.TaskEntity, oldAssignees []entity.AssigneeEntity, newAssignee *entity.AssigneeEntity) ([]entity.SyncResult, *app_errors.AppError) {
	if task == nil || newAssignee == nil {
		return nil, app_errors.NotFound("assignee_not_found")
	}

	var results []entity.SyncResult
	oldIDs := make([]string, 0, len(oldAssignees))
	for i := range oldAssignees {
		old := oldAssignees[i]
		oldIDs = append(oldIDs, old.UserID)
		if !old.HasExternalTask() {
			continue
		}

		res := s.PropagateDelete(ctx, old.Email, *old.ExternalTaskID)
		res.UserID = old.UserID
		if res.Status == entity.SyncResultFailed && zimbra.IsTransient(res.Err) {
			payload := entity.NewSyncPayload(task, &old)
			if _, err := s.Enqueue(ctx, nil, task.ID, old.Email, entity.SyncDelete, payload); err != nil {
				log.Error().Err(err).Str("task_id", task.ID).Msg("DELETE konnte nicht in die Queue gestellt werden")
			}
		}
		results = append(results, res)
	}

	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return results, err
	}
	defer t.Rollback(ctx)

	if err := s.repo.DeleteAssignees(ctx, t, task.ID, oldIDs); err != nil {
		return results, err
	}
	if err := s.repo.InsertAssignee(ctx, t, task.ID, newAssignee.UserID); err != nil {
		return results, err
	}
	if err := t.Commit(ctx); err != nil {
		return results, err
	}

	newAssignee.TaskID = task.ID
	newAssignee.ExternalTaskID = nil
	newAssignee.IsCompleted = false

	res := s.PropagateCreate(ctx, task, newAssignee)
	if res.Status == entity.SyncResultFailed {
		if _, err := s.Enqueue(ctx, nil, task.ID, newAssignee.Email, entity.SyncCreate, entity.NewSyncPayload(task, newAssignee)); err != nil {
			log.Error().Err(err).Str("task_id", task.ID).Msg("CREATE konnte nicht in die Queue gestellt werden")
		}
	}
	results = append(results, res)

	return results, nil
}

// ForceSyncAll leitet alles aus dem aktuellen Zuweisungsstand ab. Ein zweiter
// Lauf ohne Änderungen erzeugt nur Updates.
func (s *ZimbraSyncService) ForceSyncAll(ctx context.Context, taskID string) ([]entity.SyncResult, *app_errors.AppError) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	assignees, err := s.repo.ListAssignees(ctx, nil, taskID)
	if err != nil {
		return nil, err
	}

	results := make([]entity.SyncResult, 0, len(assignees))
	for i := range assignees {
		a := &assignees[i]
		if a.HasExternalTask() {
			results = append(results, s.PropagateUpdate(ctx, task, a))
			continue
		}
		results = append(results, s.PropagateCreate(ctx, task, a))
	}

	log.Info().Str("task_id", taskID).Int("assignees", len(assignees)).Msg("Zimbra-Sync erzwungen")
	return results, nil
}

func (s *ZimbraSyncService) precheck(task *entity.TaskEntity, assignee *entity.AssigneeEntity) (entity.SyncResult, bool) {
	if assignee == nil {
		return entity.SyncResult{Status: entity.SyncResultSkipped, Error: "assignee not found"}, true
	}
	res := entity.SyncResult{UserID: assignee.UserID, Email: assignee.Email, Status: entity.SyncResultSkipped}
	switch {
	case task == nil:
		res.Error = "task not found"
	case !assignee.ZimbraSyncEnabled:
		res.Error = "sync disabled"
	case assignee.Email == "":
		res.Error = "no email"
	case s.adapter == nil:
		res.Error = "zimbra not configured"
	default:
		return res, false
	}
	return res, true
}

var errWriteBack = fmt.Errorf("%w: external_task_id write-back failed", errLocal)

func failedResult(a *entity.AssigneeEntity, err error) entity.SyncResult {
	return entity.SyncResult{
		UserID: a.UserID,
		Email:  a.Email,
		Status: entity.SyncResultFailed,
		Error:  err.Error(),
		Err:    err,
	}
}
