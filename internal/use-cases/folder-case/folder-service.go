package folder_case

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/dtos"
	folder_dto "github.com/neolist/neolist/internal/dtos/folder-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/queue"
	folder_repo "github.com/neolist/neolist/internal/repo/folder-repo"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/rs/zerolog/log"
)

type FolderService struct {
	repo      folder_repo.FolderRepoContract
	txManager tx.TxManager
	sync      zimbra_sync_case.ZimbraSyncServiceContract
	queue     queue.TaskQueueClient
}

func NewFolderService(db *pgxpool.Pool, sync zimbra_sync_case.ZimbraSyncServiceContract, q queue.TaskQueueClient) FolderServiceContract {
	return &FolderService{
		repo:      folder_repo.NewFolderRepo(db),
		txManager: tx.NewPgxTxManager(db),
		sync:      sync,
		queue:     q,
	}
}

func canManage(actor entity.Actor, ownerID string) bool {
	return actor.IsAdmin() || actor.UserID == ownerID
}

func (s *FolderService) CreateFolder(ctx context.Context, actor entity.Actor, req folder_dto.CreateFolderRequest) (*entity.FolderEntity, *app_errors.AppError) {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	folder, err := s.repo.InsertFolder(ctx, t, &entity.FolderEntity{
		ID:      id.String(),
		OwnerID: actor.UserID,
		Name:    strings.TrimSpace(req.Name),
	})
	if err != nil {
		return nil, err
	}

	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	return folder, nil
}

// ListFolders liefert eigene Ordner (Admins: alle) und die mit dem Benutzer
// geteilten Listen fremder Ordner.
func (s *FolderService) ListFolders(ctx context.Context, actor entity.Actor) (*folder_dto.FolderOverviewResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	folders, err := s.repo.ListFolders(ctx, t)
	if err != nil {
		return nil, err
	}
	shared, err := s.repo.ListSharedLists(ctx, t, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &folder_dto.FolderOverviewResponse{Folders: folders, SharedLists: shared}, nil
}

func (s *FolderService) GetFolder(ctx context.Context, actor entity.Actor, folderID string) (*folder_dto.FolderDetailResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	folder, err := s.repo.GetFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}
	lists, err := s.repo.ListListsInFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}

	return &folder_dto.FolderDetailResponse{Folder: folder, Lists: lists}, nil
}

func (s *FolderService) RenameFolder(ctx context.Context, actor entity.Actor, folderID string, req folder_dto.RenameRequest) (*entity.FolderEntity, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	current, err := s.repo.GetFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, current.OwnerID) {
		return nil, app_errors.Forbidden("folder.forbidden")
	}

	folder, err := s.repo.RenameFolder(ctx, t, folderID, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder löscht Ordner samt Listen und Aufgaben. Für jede verknüpfte
// Zimbra-Aufgabe entsteht vorher ein DELETE-Eintrag in derselben Transaktion.
func (s *FolderService) DeleteFolder(ctx context.Context, actor entity.Actor, folderID string) (*dtos.DeleteResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	folder, err := s.repo.GetFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, folder.OwnerID) {
		return nil, app_errors.Forbidden("folder.forbidden")
	}

	linked, err := s.repo.LinkedAssigneesInFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}
	queued, err := s.enqueueDeletes(ctx, t, linked)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteFolder(ctx, t, folderID); err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "folder_deleted")
	return &dtos.DeleteResponse{ID: folderID, QueuedSyncOps: queued}, nil
}

func (s *FolderService) CreateList(ctx context.Context, actor entity.Actor, folderID string, req folder_dto.CreateListRequest) (*entity.ListEntity, *app_errors.AppError) {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	folder, err := s.repo.GetFolder(ctx, t, folderID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, folder.OwnerID) {
		return nil, app_errors.Forbidden("folder.forbidden")
	}

	// Eigentümer der Liste ist der Ordner-Eigentümer, auch wenn ein Admin sie anlegt.
	list, err := s.repo.InsertList(ctx, t, &entity.ListEntity{
		ID:       id.String(),
		FolderID: folder.ID,
		OwnerID:  folder.OwnerID,
		Name:     strings.TrimSpace(req.Name),
	})
	if err != nil {
		return nil, err
	}

	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *FolderService) GetList(ctx context.Context, actor entity.Actor, listID string) (*folder_dto.ListDetailResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, t, listID)
	if err != nil {
		return nil, err
	}

	return &folder_dto.ListDetailResponse{
		List:      list,
		Members:   members,
		CanManage: canManage(actor, list.OwnerID),
	}, nil
}

func (s *FolderService) RenameList(ctx context.Context, actor entity.Actor, listID string, req folder_dto.RenameRequest) (*entity.ListEntity, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	current, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, current.OwnerID) {
		return nil, app_errors.Forbidden("list.forbidden")
	}

	list, err := s.repo.RenameList(ctx, t, listID, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *FolderService) DeleteList(ctx context.Context, actor entity.Actor, listID string) (*dtos.DeleteResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, list.OwnerID) {
		return nil, app_errors.Forbidden("list.forbidden")
	}

	linked, err := s.repo.LinkedAssigneesInList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	queued, err := s.enqueueDeletes(ctx, t, linked)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteList(ctx, t, listID); err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "list_deleted")
	return &dtos.DeleteResponse{ID: listID, QueuedSyncOps: queued}, nil
}

// ShareList fügt den Benutzer mit der angegebenen E-Mail als Mitglied hinzu
// und gibt die aktuelle Mitgliederliste zurück.
func (s *FolderService) ShareList(ctx context.Context, actor entity.Actor, listID string, req folder_dto.ShareListRequest) ([]entity.ListMember, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, list.OwnerID) {
		return nil, app_errors.Forbidden("list.forbidden")
	}

	user, err := s.repo.FindUserByEmail(ctx, t, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.NotFound("user_not_found")
	}
	if user.ID == list.OwnerID {
		return nil, app_errors.Conflict("list_member_exists", nil)
	}

	if err := s.repo.AddMember(ctx, t, listID, user.ID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("list_id", listID).Str("user_id", user.ID).Msg("Liste geteilt")
	return members, nil
}

// RemoveMember: Eigentümer und Admins entfernen beliebige Mitglieder, ein
// Mitglied kann sich selbst austragen.
func (s *FolderService) RemoveMember(ctx context.Context, actor entity.Actor, listID, userID string) *app_errors.AppError {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return err
	}
	if !canManage(actor, list.OwnerID) && actor.UserID != userID {
		return app_errors.Forbidden("list.forbidden")
	}

	if err := s.repo.RemoveMember(ctx, t, listID, userID); err != nil {
		return err
	}
	return t.Commit(ctx)
}

func (s *FolderService) enqueueDeletes(ctx context.Context, t tx.Tx, linked []entity.AssigneeEntity) (int, *app_errors.AppError) {
	queued := 0
	for i := range linked {
		a := &linked[i]
		if a.Email == "" || !a.HasExternalTask() {
			continue
		}
		payload := entity.SyncPayload{ExternalTaskID: *a.ExternalTaskID}
		if _, err := s.sync.Enqueue(ctx, t, a.TaskID, a.Email, entity.SyncDelete, payload); err != nil {
			return 0, err
		}
		queued++
	}
	return queued, nil
}

func (s *FolderService) kickDrain(queued int, reason string) {
	if queued == 0 {
		return
	}
	if err := s.queue.EnqueueDrainSyncQueue(reason); err != nil {
		log.Warn().Err(err).Str("reason", reason).Msg("Drain der Sync-Queue konnte nicht angestoßen werden")
	}
}
