package user_repo

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

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) UserRepoContract {
	return &UserRepo{
		db: db,
	}
}

const userColumns = `id, email, display_name, role, zimbra_sync_enabled, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.UserEntity, error) {
	var u entity.UserEntity
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.ZimbraSyncEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE id = $1 LIMIT 1`

	var u entity.UserEntity
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.ZimbraSyncEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.PasswordHash,
	)
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, t tx.Tx, userID string, model UserUpdate) (*entity.UserEntity, *app_errors.AppError) {
	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 3)
	argPos := 1

	if model.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name = $%d", argPos))
		args = append(args, *model.DisplayName)
		argPos++
	}

	if model.ZimbraSyncEnabled != nil {
		setClauses = append(setClauses, fmt.Sprintf("zimbra_sync_enabled = $%d", argPos))
		args = append(args, *model.ZimbraSyncEnabled)
		argPos++
	}

	if len(setClauses) == 0 {
		return nil, app_errors.InvalidBody(fmt.Errorf("keine Felder zum Aktualisieren"))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argPos, userColumns)
	args = append(args, userID)

	u, err := scanUser(tx.QuerierOf(t, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return u, nil
}

func (r *UserRepo) Deactivate(ctx context.Context, t tx.Tx, userID string) *app_errors.AppError {
	query := `
		UPDATE users
		SET is_active = false, updated_at = now()
		WHERE id = $1
	`
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, query, userID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("user_not_found")
	}
	return nil
}

func (r *UserRepo) ListUsers(ctx context.Context, limit, offset int) ([]entity.UserEntity, int64, *app_errors.AppError) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY display_name, id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	users := make([]entity.UserEntity, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, app_errors.MapPgxError(err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}
	return users, total, nil
}

func (r *UserRepo) SetRole(ctx context.Context, t tx.Tx, userID string, role entity.UserRole) (*entity.UserEntity, *app_errors.AppError) {
	query := `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(tx.QuerierOf(t, r.db).QueryRow(ctx, query, userID, role))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return u, nil
}

// ListAssignments liefert alle Zuweisungen des Benutzers samt Aufgabe.
func (r *UserRepo) ListAssignments(ctx context.Context, t tx.Tx, userID string) ([]entity.TaskAssignment, *app_errors.AppError) {
	query := `
		SELECT
			t.id, t.list_id, t.title, t.notes, t.due_date, t.priority, t.is_completed, t.created_by, t.created_at, t.updated_at,
			a.user_id, u.email, u.display_name, u.zimbra_sync_enabled AND u.is_active, a.is_completed, a.assigned_at, a.external_task_id
		FROM task_assignees a
		JOIN tasks t ON t.id = a.task_id
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		ORDER BY a.assigned_at
	`
	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var out []entity.TaskAssignment
	for rows.Next() {
		var ta entity.TaskAssignment
		task, a := &ta.Task, &ta.Assignee
		if err := rows.Scan(
			&task.ID, &task.ListID, &task.Title, &task.Notes, &task.DueDate, &task.Priority, &task.IsCompleted, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
			&a.UserID, &a.Email, &a.DisplayName, &a.ZimbraSyncEnabled, &a.IsCompleted, &a.AssignedAt, &a.ExternalTaskID,
		); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		a.TaskID = task.ID
		out = append(out, ta)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return out, nil
}
