package auth_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type AuthRepo struct {
	db *pgxpool.Pool
}

func NewAuthRepo(db *pgxpool.Pool) AuthRepoContract {
	return &AuthRepo{
		db: db,
	}
}

// CountUsersByEmail vergleicht ohne Beachtung der Groß-/Kleinschreibung.
func (r *AuthRepo) CountUsersByEmail(ctx context.Context, email string) (int64, *app_errors.AppError) {
	var count int64
	query := `SELECT COUNT(*) FROM users WHERE lower(email) = lower($1)`
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return 0, app_errors.MapPgxError(err)
	}
	return count, nil
}

func (r *AuthRepo) CountUsers(ctx context.Context) (int64, *app_errors.AppError) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, app_errors.MapPgxError(err)
	}
	return count, nil
}

// SaveUser speichert einen neuen Benutzer und gibt die erzeugte ID zurück.
// Eine doppelte E-Mail ergibt einen Konfliktfehler.
func (r *AuthRepo) SaveUser(ctx context.Context, t tx.Tx, model entity.UserEntity) (string, *app_errors.AppError) {
	cols := []string{"id", "email", "display_name", "password_hash", "role", "zimbra_sync_enabled"}
	vals := []any{model.ID, model.Email, model.DisplayName, model.PasswordHash, model.Role, model.ZimbraSyncEnabled}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
	INSERT INTO users (%s)
	VALUES (%s)
	RETURNING id;
	`, strings.Join(cols, ","), strings.Join(placeholders, ","))

	var id string
	if err := tx.QuerierOf(t, r.db).QueryRow(ctx, query, vals...).Scan(&id); err != nil {
		appErr := app_errors.MapPgxError(err)
		if appErr.Type == app_errors.ErrConflict {
			appErr.MessageKey = "auth.email_taken"
		}
		return "", appErr
	}

	return id, nil
}

// FindByEmail liefert NotFound "user_not_found", wenn kein Benutzer existiert.
func (r *AuthRepo) FindByEmail(ctx context.Context, email string) (*entity.UserEntity, *app_errors.AppError) {
	query := `
		SELECT id, email, display_name, password_hash, role, zimbra_sync_enabled, is_active, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
		LIMIT 1
	`

	var u entity.UserEntity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.ZimbraSyncEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NotFound("user_not_found")
		}
		return nil, app_errors.Internal(err)
	}

	return &u, nil
}
