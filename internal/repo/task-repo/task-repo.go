package task_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type TaskRepo struct {
	db *pgxpool.Pool
}

func NewTaskRepo(db *pgxpool.Pool) TaskRepoContract {
	return &TaskRepo{db: db}
}

const taskColumns = `id, list_id, title, notes, due_date, priority, is_completed, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*entity.TaskEntity, error) {
	var t entity.TaskEntity
	if err := row.Scan(&t.ID, &t.ListID, &t.Title, &t.Notes, &t.DueDate, &t.Priority, &t.IsCompleted, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
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

func (r *TaskRepo) GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError) {
	query := `
	SELECT id, folder_id, owner_id, name, created_at, updated_at
	FROM lists
	WHERE id = $1
	`

	var l entity.ListEntity
	err := tx.QuerierOf(t, r.db).QueryRow(ctx, query, listID).Scan(&l.ID, &l.FolderID, &l.OwnerID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, app_errors.MapPgxError(err, "list_not_found")
	}
	return &l, nil
}

// EnsureListMember macht einen Zugewiesenen zum Mitglied, damit er die Aufgabe sieht.
func (r *TaskRepo) EnsureListMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	query := `
	INSERT INTO list_members (list_id, user_id)
	SELECT l.id, $2
	FROM lists l
	WHERE l.id = $1
		AND l.owner_id <> $2
	ON CONFLICT (list_id, user_id) DO NOTHING
	`

	if _, err := tx.QuerierOf(t, r.db).Exec(ctx, query, listID, userID); err != nil {
		return app_errors.MapPgxError(err)
	}
	return nil
}

func (r *TaskRepo) InsertTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	INSERT INTO tasks (id, list_id, title, notes, due_date, priority, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + taskColumns

	created, err := scanTask(tx.QuerierOf(t, r.db).QueryRow(ctx, query,
		task.ID, task.ListID, task.Title, task.Notes, task.DueDate, task.Priority, task.CreatedBy,
	))
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return created, nil
}

func (r *TaskRepo) ListTasks(ctx context.Context, t tx.Tx, listID string) ([]entity.TaskEntity, *app_errors.AppError) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE list_id = $1
	ORDER BY is_completed, due_date NULLS LAST, created_at
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, listID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	tasks := []entity.TaskEntity{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return tasks, nil
}

func (r *TaskRepo) GetTask(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(tx.QuerierOf(t, r.db).QueryRow(ctx, query, taskID))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "task_not_found")
	}
	return task, nil
}

func (r *TaskRepo) UpdateTask(ctx context.Context, t tx.Tx, taskID string, model TaskUpdate) (*entity.TaskEntity, *app_errors.AppError) {
	setClauses := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argPos := 1

	if model.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *model.Title)
		argPos++
	}
	if model.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = NULLIF($%d, '')", argPos))
		args = append(args, *model.Notes)
		argPos++
	}
	switch {
	case model.ClearDueDate:
		setClauses = append(setClauses, "due_date = NULL")
	case model.DueDate != nil:
		setClauses = append(setClauses, fmt.Sprintf("due_date = $%d", argPos))
		args = append(args, *model.DueDate)
		argPos++
	}
	if model.Priority != nil {
		setClauses = append(setClauses, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, string(*model.Priority))
		argPos++
	}

	if len(setClauses) == 0 {
		return nil, app_errors.InvalidBody(fmt.Errorf("keine Felder zum Aktualisieren"))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argPos, taskColumns)
	args = append(args, taskID)

	task, err := scanTask(tx.QuerierOf(t, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "task_not_found")
	}
	return task, nil
}

func (r *TaskRepo) SetTaskCompleted(ctx context.Context, t tx.Tx, taskID string, completed bool) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	UPDATE tasks
	SET is_completed = $2, updated_at = now()
	WHERE id = $1
	RETURNING ` + taskColumns

	task, err := scanTask(tx.QuerierOf(t, r.db).QueryRow(ctx, query, taskID, completed))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "task_not_found")
	}
	return task, nil
}

func (r *TaskRepo) DeleteTask(ctx context.Context, t tx.Tx, taskID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("task_not_found")
	}
	return nil
}

const userColumns = `id, email, display_name, role, zimbra_sync_enabled, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.UserEntity, error) {
	var u entity.UserEntity
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.ZimbraSyncEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *TaskRepo) FindUserByID(ctx context.Context, t tx.Tx, userID string) (*entity.UserEntity, *app_errors.AppError) {
	u, err := scanUser(tx.QuerierOf(t, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return u, nil
}

func (r *TaskRepo) FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError) {
	u, err := scanUser(tx.QuerierOf(t, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return u, nil
}

func collectAssignees(rows pgx.Rows) ([]entity.AssigneeEntity, *app_errors.AppError) {
	defer rows.Close()

	out := []entity.AssigneeEntity{}
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

func (r *TaskRepo) ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	SELECT ` + assigneeColumns + `
	FROM task_assignees a
	JOIN users u ON u.id = a.user_id
	WHERE a.task_id = $1
	ORDER BY a.assigned_at
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, taskID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return collectAssignees(rows)
}

// ListAssigneesInList: alle Zuweisungen der sichtbaren Aufgaben einer Liste.
func (r *TaskRepo) ListAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	SELECT ` + assigneeColumns + `
	FROM task_assignees a
	JOIN users u ON u.id = a.user_id
	JOIN tasks t ON t.id = a.task_id
	WHERE t.list_id = $1
	ORDER BY a.task_id, a.assigned_at
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, listID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return collectAssignees(rows)
}

func (r *TaskRepo) InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) (*entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	WITH a AS (
		INSERT INTO task_assignees (task_id, user_id)
		VALUES ($1, $2)
		RETURNING *
	)
	SELECT ` + assigneeColumns + `
	FROM a
	JOIN users u ON u.id = a.user_id
	`

	a, err := scanAssignee(tx.QuerierOf(t, r.db).QueryRow(ctx, query, taskID, userID))
	if err != nil {
		appErr := app_errors.MapPgxError(err)
		if appErr.Type == app_errors.ErrConflict {
			appErr.MessageKey = "task.assignee_exists"
		}
		return nil, appErr
	}
	return a, nil
}

func (r *TaskRepo) DeleteAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("assignee_not_found")
	}
	return nil
}

func (r *TaskRepo) SetAssigneeCompleted(ctx context.Context, t tx.Tx, taskID, userID string, completed bool) (*entity.AssigneeEntity, *app_errors.AppError) {
	query := `
	WITH a AS (
		UPDATE task_assignees
		SET is_completed = $3
		WHERE task_id = $1
			AND user_id = $2
		RETURNING *
	)
	SELECT ` + assigneeColumns + `
	FROM a
	JOIN users u ON u.id = a.user_id
	`

	a, err := scanAssignee(tx.QuerierOf(t, r.db).QueryRow(ctx, query, taskID, userID, completed))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "assignee_not_found")
	}
	return a, nil
}

const commentColumns = `c.id, c.task_id, c.author_id, u.display_name, c.body, c.created_at`

func scanComment(row pgx.Row) (*entity.CommentEntity, error) {
	var c entity.CommentEntity
	if err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *TaskRepo) InsertComment(ctx context.Context, t tx.Tx, comment *entity.CommentEntity) (*entity.CommentEntity, *app_errors.AppError) {
	query := `
	WITH c AS (
		INSERT INTO task_comments (id, task_id, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	)
	SELECT ` + commentColumns + `
	FROM c
	JOIN users u ON u.id = c.author_id
	`

	c, err := scanComment(tx.QuerierOf(t, r.db).QueryRow(ctx, query, comment.ID, comment.TaskID, comment.AuthorID, comment.Body))
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return c, nil
}

func (r *TaskRepo) ListComments(ctx context.Context, t tx.Tx, taskID string) ([]entity.CommentEntity, *app_errors.AppError) {
	query := `
	SELECT ` + commentColumns + `
	FROM task_comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.task_id = $1
	ORDER BY c.created_at
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, taskID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	comments := []entity.CommentEntity{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return comments, nil
}

func (r *TaskRepo) GetComment(ctx context.Context, t tx.Tx, commentID string) (*entity.CommentEntity, *app_errors.AppError) {
	query := `
	SELECT ` + commentColumns + `
	FROM task_comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.id = $1
	`

	c, err := scanComment(tx.QuerierOf(t, r.db).QueryRow(ctx, query, commentID))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "comment_not_found")
	}
	return c, nil
}

func (r *TaskRepo) DeleteComment(ctx context.Context, t tx.Tx, commentID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM task_comments WHERE id = $1`, commentID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("comment_not_found")
	}
	return nil
}
