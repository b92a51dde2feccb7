package folder_repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type FolderRepo struct {
	db *pgxpool.Pool
}

func NewFolderRepo(db *pgxpool.Pool) FolderRepoContract {
	return &FolderRepo{db: db}
}

const folderColumns = `id, owner_id, name, created_at, updated_at`

func scanFolder(row pgx.Row) (*entity.FolderEntity, error) {
	var f entity.FolderEntity
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FolderRepo) InsertFolder(ctx context.Context, t tx.Tx, folder *entity.FolderEntity) (*entity.FolderEntity, *app_errors.AppError) {
	query := `
	INSERT INTO folders (id, owner_id, name)
	VALUES ($1, $2, $3)
	RETURNING ` + folderColumns

	f, err := scanFolder(tx.QuerierOf(t, r.db).QueryRow(ctx, query, folder.ID, folder.OwnerID, folder.Name))
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return f, nil
}

func (r *FolderRepo) ListFolders(ctx context.Context, t tx.Tx) ([]entity.FolderEntity, *app_errors.AppError) {
	query := `SELECT ` + folderColumns + ` FROM folders ORDER BY name, id`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	folders := []entity.FolderEntity{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return folders, nil
}

func (r *FolderRepo) GetFolder(ctx context.Context, t tx.Tx, folderID string) (*entity.FolderEntity, *app_errors.AppError) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`

	f, err := scanFolder(tx.QuerierOf(t, r.db).QueryRow(ctx, query, folderID))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "folder_not_found")
	}
	return f, nil
}

func (r *FolderRepo) RenameFolder(ctx context.Context, t tx.Tx, folderID, name string) (*entity.FolderEntity, *app_errors.AppError) {
	query := `
	UPDATE folders
	SET name = $2, updated_at = now()
	WHERE id = $1
	RETURNING ` + folderColumns

	f, err := scanFolder(tx.QuerierOf(t, r.db).QueryRow(ctx, query, folderID, name))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "folder_not_found")
	}
	return f, nil
}

func (r *FolderRepo) DeleteFolder(ctx context.Context, t tx.Tx, folderID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM folders WHERE id = $1`, folderID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("folder_not_found")
	}
	return nil
}

const listColumns = `l.id, l.folder_id, l.owner_id, l.name, l.created_at, l.updated_at`

func scanList(row pgx.Row) (*entity.ListEntity, error) {
	var l entity.ListEntity
	if err := row.Scan(&l.ID, &l.FolderID, &l.OwnerID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLists(rows pgx.Rows) ([]entity.ListEntity, *app_errors.AppError) {
	defer rows.Close()

	lists := []entity.ListEntity{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return lists, nil
}

func (r *FolderRepo) InsertList(ctx context.Context, t tx.Tx, list *entity.ListEntity) (*entity.ListEntity, *app_errors.AppError) {
	query := `
	INSERT INTO lists AS l (id, folder_id, owner_id, name)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + listColumns

	l, err := scanList(tx.QuerierOf(t, r.db).QueryRow(ctx, query, list.ID, list.FolderID, list.OwnerID, list.Name))
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return l, nil
}

func (r *FolderRepo) ListListsInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.ListEntity, *app_errors.AppError) {
	query := `SELECT ` + listColumns + ` FROM lists l WHERE l.folder_id = $1 ORDER BY l.name, l.id`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, folderID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return collectLists(rows)
}

// ListSharedLists: Listen, in denen userID Mitglied, aber nicht Eigentümer ist.
func (r *FolderRepo) ListSharedLists(ctx context.Context, t tx.Tx, userID string) ([]entity.ListEntity, *app_errors.AppError) {
	query := `
	SELECT ` + listColumns + `
	FROM lists l
	JOIN list_members m ON m.list_id = l.id
	WHERE m.user_id = $1
		AND l.owner_id <> $1
	ORDER BY l.name, l.id
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return collectLists(rows)
}

func (r *FolderRepo) GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError) {
	query := `SELECT ` + listColumns + ` FROM lists l WHERE l.id = $1`

	l, err := scanList(tx.QuerierOf(t, r.db).QueryRow(ctx, query, listID))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "list_not_found")
	}
	return l, nil
}

func (r *FolderRepo) RenameList(ctx context.Context, t tx.Tx, listID, name string) (*entity.ListEntity, *app_errors.AppError) {
	query := `
	UPDATE lists AS l
	SET name = $2, updated_at = now()
	WHERE l.id = $1
	RETURNING ` + listColumns

	l, err := scanList(tx.QuerierOf(t, r.db).QueryRow(ctx, query, listID, name))
	if err != nil {
		return nil, app_errors.MapPgxError(err, "list_not_found")
	}
	return l, nil
}

func (r *FolderRepo) DeleteList(ctx context.Context, t tx.Tx, listID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM lists WHERE id = $1`, listID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("list_not_found")
	}
	return nil
}

func (r *FolderRepo) FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError) {
	query := `
	SELECT id, email, display_name, role, zimbra_sync_enabled, is_active, created_at, updated_at
	FROM users
	WHERE lower(email) = lower($1)
	`

	var u entity.UserEntity
	err := tx.QuerierOf(t, r.db).QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.ZimbraSyncEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, app_errors.MapPgxError(err, "user_not_found")
	}
	return &u, nil
}

func (r *FolderRepo) AddMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	query := `INSERT INTO list_members (list_id, user_id) VALUES ($1, $2)`

	if _, err := tx.QuerierOf(t, r.db).Exec(ctx, query, listID, userID); err != nil {
		appErr := app_errors.MapPgxError(err)
		if appErr.Type == app_errors.ErrConflict {
			appErr.MessageKey = "list_member_exists"
		}
		return appErr
	}
	return nil
}

func (r *FolderRepo) RemoveMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	tag, err := tx.QuerierOf(t, r.db).Exec(ctx, `DELETE FROM list_members WHERE list_id = $1 AND user_id = $2`, listID, userID)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("list_member_not_found")
	}
	return nil
}

func (r *FolderRepo) ListMembers(ctx context.Context, t tx.Tx, listID string) ([]entity.ListMember, *app_errors.AppError) {
	query := `
	SELECT m.list_id, m.user_id, u.email, u.display_name, m.added_at
	FROM list_members m
	JOIN users u ON u.id = m.user_id
	WHERE m.list_id = $1
	ORDER BY u.display_name
	`

	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, listID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	members := []entity.ListMember{}
	for rows.Next() {
		var m entity.ListMember
		if err := rows.Scan(&m.ListID, &m.UserID, &m.Email, &m.DisplayName, &m.AddedAt); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return members, nil
}

const linkedAssigneeQuery = `
	SELECT a.task_id, a.user_id, u.email, u.display_name, u.zimbra_sync_enabled AND u.is_active,
		a.is_completed, a.assigned_at, a.external_task_id
	FROM task_assignees a
	JOIN users u ON u.id = a.user_id
	JOIN tasks t ON t.id = a.task_id
	JOIN lists l ON l.id = t.list_id
	WHERE a.external_task_id IS NOT NULL
`

func (r *FolderRepo) linkedAssignees(ctx context.Context, t tx.Tx, query string, arg string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	rows, err := tx.QuerierOf(t, r.db).Query(ctx, query, arg)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var out []entity.AssigneeEntity
	for rows.Next() {
		var a entity.AssigneeEntity
		if err := rows.Scan(&a.TaskID, &a.UserID, &a.Email, &a.DisplayName, &a.ZimbraSyncEnabled, &a.IsCompleted, &a.AssignedAt, &a.ExternalTaskID); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return out, nil
}

func (r *FolderRepo) LinkedAssigneesInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	return r.linkedAssignees(ctx, t, linkedAssigneeQuery+` AND l.folder_id = $1`, folderID)
}

func (r *FolderRepo) LinkedAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	return r.linkedAssignees(ctx, t, linkedAssigneeQuery+` AND l.id = $1`, listID)
}
