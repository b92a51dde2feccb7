package sync_repo

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// SyncRepo läuft ohne Actor-Kontext: der Reconciler arbeitet im Auftrag
// bereits geprüfter Aufrufer oder des Workers.
type SyncRepo struct {
	db *pgxpool.Pool
}

func NewSyncRepo(db *pgxpool.Pool) SyncRepoContract {
	return &SyncRepo{db: db}
}

const assigneeColumns = `
	a.task_id, a.user_id, u.email, u.display_name, u.zimbra_sync_enabled AND u.is_active,
	a.is_completed, a.assigned_at, a.external_task_id
`

func scanAssignee(row pgx.Row) (*entity.AssigneeEntity, error) {
	var a entity.AssigneeEntity
	if err := row.Scan(&a.TaskID, &a.UserID, &a.Email, &a.DisplayName, &a.ZimbraSyncEnabled, &a.IsCompleted, &a.AssignedAt, &a.ExternalTaskID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SyncRepo) GetTask(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	SELECT id, list_id, title, notes, due_date, priority, is_completed, created_by, created_at, updated_at
	FROM tasks
	WHERE id = $1;
	`

	var t entity.TaskEntity
	if err := r.db.QueryRow(ctx, query, taskID).Scan(&t.ID, &t.ListID, &t.Title, &t.Notes, &t.DueDate, &t.Priority, &t.IsCompleted, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, app_errors.MapPgxError(err, "task_not_found")
	}
	return &t, nil
}

func (r *SyncRepo) ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	SELECT ` + assigneeColumns + `
	FROM task_assignees a
	JOIN users u ON u.id = a.user_id
	WHERE a.task_id = $1
	ORDER BY a.assigned_at;
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, taskID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var out []entity.AssigneeEntity
	for rows.Next() {
		a, err := scanAssignee(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return out, nil
}

// FindAssigneeByEmail liefert (nil, nil), wenn die Zuweisung nicht mehr existiert.
func (r *SyncRepo) FindAssigneeByEmail(ctx context.Context, taskID, email string) (*entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	SELECT ` + assigneeColumns + `
	FROM task_assignees a
	JOIN users u ON u.id = a.user_id
	WHERE a.task_id = $1
		AND lower(u.email) = lower($2);
	`

	a, err := scanAssignee(r.db.QueryRow(ctx, query, taskID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return a, nil
}

func (r *SyncRepo) SetExternalTaskID(ctx context.Context, taskID, userID, externalID string) *app_errors.AppError {
	query := `
	UPDATE task_assignees
	SET external_task_id = $3
	WHERE task_id = $1
		AND user_id = $2;
	`

	tag, err := r.db.Exec(ctx, query, taskID, userID, externalID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("assignee_not_found")
	}
	return nil
}

func (r *SyncRepo) DeleteAssignees(ctx context.Context, t tx.Tx, taskID string, userIDs []string) *app_errors.AppError {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
	DELETE FROM task_assignees
	WHERE task_id = $1
		AND user_id = ANY($2::uuid[]);
	`

	if _, err := tx.QuerierOf(t, r.db).Exec(ctx, query, taskID, userIDs); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

func (r *SyncRepo) InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError {
	query := `
	INSERT INTO task_assignees (task_id, user_id, assigned_at)
	VALUES ($1, $2, now())
	ON CONFLICT (task_id, user_id) DO NOTHING;
	`

	if _, err := tx.QuerierOf(t, r.db).Exec(ctx, query, taskID, userID); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

const queueColumns = `
	id, task_id, user_email, action_type, payload, status, attempt, retry_of,
	available_at, claimed_at, processed_at, last_error, result_external_id, created_at
`

func scanQueueEntry(row pgx.Row) (*entity.SyncQueueEntry, error) {
	var (
		e   entity.SyncQueueEntry
		raw []byte
	)
	if err := row.Scan(&e.ID, &e.TaskID, &e.UserEmail, &e.Action, &raw, &e.Status, &e.Attempt, &e.RetryOf,
		&e.AvailableAt, &e.ClaimedAt, &e.ProcessedAt, &e.LastError, &e.ResultExternalID, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &e.Payload); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectQueueEntries(rows pgx.Rows) ([]entity.SyncQueueEntry, error) {
	defer rows.Close()

	var out []entity.SyncQueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// InsertQueueEntry schreibt in t, damit der Eintrag mit der lokalen Änderung
// committet wird.
func (r *SyncRepo) InsertQueueEntry(ctx context.Context, t tx.Tx, e *entity.SyncQueueEntry) *app_errors.AppError {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return app_errors.Internal(err)
	}

	query := `
	INSERT INTO zimbra_sync_queue (
		id, task_id, user_email, action_type, payload, status, attempt, retry_of, available_at, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	);
	`

	if _, err := tx.QuerierOf(t, r.db).Exec(ctx, query,
		e.ID, e.TaskID, e.UserEmail, e.Action, payload, e.Status, e.Attempt, e.RetryOf, e.AvailableAt, e.CreatedAt,
	); err != nil {
		appErr := app_errors.MapPgxError(err)
		if appErr.Type == app_errors.ErrConflict {
			appErr.MessageKey = "sync_entry_already_retried"
		}
		return appErr
	}
	return nil
}

// FailStaleClaims beendet Einträge, deren Worker verschwunden ist. Sie werden
// nicht erneut ausgeführt, da der externe Aufruf schon passiert sein kann.
func (r *SyncRepo) FailStaleClaims(ctx context.Context, olderThan time.Duration) (int64, *app_errors.AppError) {
	query := `
	UPDATE zimbra_sync_queue
	SET status = 'FAILED',
		processed_at = now(),
		last_error = 'claim expired'
	WHERE status = 'IN_PROGRESS'
		AND claimed_at < now() - make_interval(secs => $1);
	`

	tag, err := r.db.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, app_errors.MapPgxError(err)
	}
	return tag.RowsAffected(), nil
}

// ClaimPending setzt bis zu batchSize fällige Einträge atomar auf IN_PROGRESS.
// SKIP LOCKED sorgt dafür, dass parallele Worker disjunkte Mengen bekommen.
func (r *SyncRepo) ClaimPending(ctx context.Context, batchSize int) ([]entity.SyncQueueEntry, *app_errors.AppError) {
	query := `
	UPDATE zimbra_sync_queue q
	SET status = 'IN_PROGRESS',
		claimed_at = now()
	WHERE q.id IN (
		SELECT id
		FROM zimbra_sync_queue
		WHERE status = 'PENDING'
			AND available_at <= now()
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING ` + queueColumns + `;
	`

	rows, err := r.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	entries, err := collectQueueEntries(rows)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return entries, nil
}

// FinishEntry meldet false, wenn der Eintrag nicht mehr IN_PROGRESS war.
func (r *SyncRepo) FinishEntry(ctx context.Context, id string, status entity.SyncStatus, externalID, lastError *string) (bool, *app_errors.AppError) {
	query := `
	UPDATE zimbra_sync_queue
	SET status = $2,
		processed_at = now(),
		result_external_id = $3,
		last_error = $4
	WHERE id = $1
		AND status = 'IN_PROGRESS';
	`

	tag, err := r.db.Exec(ctx, query, id, status, externalID, lastError)
	if err != nil {
		return false, app_errors.MapPgxError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SyncRepo) GetQueueEntry(ctx context.Context, id string) (*entity.SyncQueueEntry, *app_errors.AppError) {
	query := `SELECT ` + queueColumns + ` FROM zimbra_sync_queue WHERE id = $1;`

	e, err := scanQueueEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "sync_entry_not_found")
	}
	return e, nil
}

func (r *SyncRepo) ListQueueEntries(ctx context.Context, status entity.SyncStatus, limit, offset int) ([]entity.SyncQueueEntry, *app_errors.AppError) {
	query := `
	SELECT ` + queueColumns + `
	FROM zimbra_sync_queue
	WHERE ($1 = '' OR status = $1)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3;
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	entries, err := collectQueueEntries(rows)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return entries, nil
}

func (r *SyncRepo) CountQueueByStatus(ctx context.Context) ([]entity.SyncQueueStats, *app_errors.AppError) {
	query := `
	SELECT status, COUNT(*)
	FROM zimbra_sync_queue
	GROUP BY status
	ORDER BY status;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var out []entity.SyncQueueStats
	for rows.Next() {
		var s entity.SyncQueueStats
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return out, nil
}
