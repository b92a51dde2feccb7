package folder_repo

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// FolderRepoContract: alle Methoden erwarten eine per BeginAs geöffnete
// Transaktion, die Sichtbarkeit regelt die Row-Level-Security.
type FolderRepoContract interface {
	InsertFolder(ctx context.Context, t tx.Tx, folder *entity.FolderEntity) (*entity.FolderEntity, *app_errors.AppError)
	ListFolders(ctx context.Context, t tx.Tx) ([]entity.FolderEntity, *app_errors.AppError)
	GetFolder(ctx context.Context, t tx.Tx, folderID string) (*entity.FolderEntity, *app_errors.AppError)
	RenameFolder(ctx context.Context, t tx.Tx, folderID, name string) (*entity.FolderEntity, *app_errors.AppError)
	DeleteFolder(ctx context.Context, t tx.Tx, folderID string) *app_errors.AppError

	InsertList(ctx context.Context, t tx.Tx, list *entity.ListEntity) (*entity.ListEntity, *app_errors.AppError)
	ListListsInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.ListEntity, *app_errors.AppError)
	ListSharedLists(ctx context.Context, t tx.Tx, userID string) ([]entity.ListEntity, *app_errors.AppError)
	GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError)
	RenameList(ctx context.Context, t tx.Tx, listID, name string) (*entity.ListEntity, *app_errors.AppError)
	DeleteList(ctx context.Context, t tx.Tx, listID string) *app_errors.AppError

	FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError)
	AddMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError
	RemoveMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError
	ListMembers(ctx context.Context, t tx.Tx, listID string) ([]entity.ListMember, *app_errors.AppError)

	// Linked* liefern alle Zuweisungen mit externem Objekt, die
	// beim Löschen von Ordner oder Liste mitgelöscht werden.
	LinkedAssigneesInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.AssigneeEntity, *app_errors.AppError)
	LinkedAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError)
}
