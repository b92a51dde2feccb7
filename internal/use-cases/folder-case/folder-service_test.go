package folder_case

import (
	"context"
	"errors"
	"testing"

	folder_dto "github.com/neolist/neolist/internal/dtos/folder-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	use_cases "github.com/neolist/neolist/internal/use-cases"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var noErr = (*app_errors.AppError)(nil)

var (
	owner  = entity.Actor{UserID: "owner-1", Role: entity.RoleUser}
	member = entity.Actor{UserID: "member-1", Role: entity.RoleUser}
	admin  = entity.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
)

type folderDeps struct {
	repo      *MockFolderRepo
	txManager *use_cases.MockTxManager
	tx        *use_cases.MockTx
	sync      *zimbra_sync_case.MockZimbraSyncService
	queue     *use_cases.MockTaskQueue
}

func newTestFolderService(actor entity.Actor) (*FolderService, folderDeps) {
	d := folderDeps{
		repo:      new(MockFolderRepo),
		txManager: new(use_cases.MockTxManager),
		tx:        new(use_cases.MockTx),
		sync:      new(zimbra_sync_case.MockZimbraSyncService),
		queue:     new(use_cases.MockTaskQueue),
	}
	d.txManager.On("BeginAs", mock.Anything, actor.UserID).Return(d.tx, noErr)
	d.tx.On("Rollback", mock.Anything).Return(noErr)
	return &FolderService{
		repo:      d.repo,
		txManager: d.txManager,
		sync:      d.sync,
		queue:     d.queue,
	}, d
}

func strPtr(s string) *string { return &s }

func TestCreateFolder_OwnedByActor(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("InsertFolder", ctx, d.tx, mock.MatchedBy(func(f *entity.FolderEntity) bool {
		return f.OwnerID == "owner-1" && f.Name == "Station 3B" && f.ID != ""
	})).Return(&entity.FolderEntity{ID: "f-1", OwnerID: "owner-1", Name: "Station 3B"}, noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	folder, err := s.CreateFolder(ctx, owner, folder_dto.CreateFolderRequest{Name: "  Station 3B "})

	require.Nil(t, err)
	assert.Equal(t, "f-1", folder.ID)
	d.tx.AssertExpectations(t)
}

func TestRenameFolder_ForeignFolderForbidden(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(member)

	d.repo.On("GetFolder", ctx, d.tx, "f-1").Return(&entity.FolderEntity{ID: "f-1", OwnerID: "owner-1"}, noErr)

	_, err := s.RenameFolder(ctx, member, "f-1", folder_dto.RenameRequest{Name: "Neu"})

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrForbidden, err.Type)
	d.repo.AssertNotCalled(t, "RenameFolder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRenameFolder_AdminMayRename(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(admin)

	d.repo.On("GetFolder", ctx, d.tx, "f-1").Return(&entity.FolderEntity{ID: "f-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("RenameFolder", ctx, d.tx, "f-1", "Intensiv").Return(&entity.FolderEntity{ID: "f-1", Name: "Intensiv"}, noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	folder, err := s.RenameFolder(ctx, admin, "f-1", folder_dto.RenameRequest{Name: "Intensiv"})

	require.Nil(t, err)
	assert.Equal(t, "Intensiv", folder.Name)
}

func TestGetFolder_HiddenByRowLevelSecurity(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(member)

	d.repo.On("GetFolder", ctx, d.tx, "f-1").Return((*entity.FolderEntity)(nil), app_errors.NotFound("folder_not_found"))

	_, err := s.GetFolder(ctx, member, "f-1")

	require.NotNil(t, err)
	assert.Equal(t, "folder_not_found", err.MessageKey)
}

func TestDeleteFolder_EnqueuesExternalDeletes(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("GetFolder", ctx, d.tx, "f-1").Return(&entity.FolderEntity{ID: "f-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("LinkedAssigneesInFolder", ctx, d.tx, "f-1").Return([]entity.AssigneeEntity{
		{TaskID: "task-1", UserID: "u-1", Email: "a@klinik.de", ZimbraSyncEnabled: true, ExternalTaskID: strPtr("ext-a")},
		{TaskID: "task-2", UserID: "u-2", Email: "b@klinik.de", ZimbraSyncEnabled: false, ExternalTaskID: strPtr("ext-b")},
		{TaskID: "task-3", UserID: "u-3", Email: "", ExternalTaskID: strPtr("ext-c")},
	}, noErr)
	d.sync.On("Enqueue", ctx, d.tx, "task-1", "a@klinik.de", entity.SyncDelete, entity.SyncPayload{ExternalTaskID: "ext-a"}).
		Return(&entity.SyncQueueEntry{ID: "q-1"}, noErr)
	d.sync.On("Enqueue", ctx, d.tx, "task-2", "b@klinik.de", entity.SyncDelete, entity.SyncPayload{ExternalTaskID: "ext-b"}).
		Return(&entity.SyncQueueEntry{ID: "q-2"}, noErr)
	d.repo.On("DeleteFolder", ctx, d.tx, "f-1").Return(noErr)
	d.tx.On("Commit", ctx).Return(noErr)
	d.queue.On("EnqueueDrainSyncQueue", "folder_deleted").Return(errors.New("redis weg"))

	resp, err := s.DeleteFolder(ctx, owner, "f-1")

	require.Nil(t, err)
	assert.Equal(t, 2, resp.QueuedSyncOps)
	d.sync.AssertExpectations(t)
	d.sync.AssertNumberOfCalls(t, "Enqueue", 2)
	d.queue.AssertExpectations(t)
}

func TestDeleteList_NoLinkedTasksNoDrainKick(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("LinkedAssigneesInList", ctx, d.tx, "l-1").Return([]entity.AssigneeEntity{}, noErr)
	d.repo.On("DeleteList", ctx, d.tx, "l-1").Return(noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	resp, err := s.DeleteList(ctx, owner, "l-1")

	require.Nil(t, err)
	assert.Equal(t, 0, resp.QueuedSyncOps)
	d.queue.AssertNotCalled(t, "EnqueueDrainSyncQueue", mock.Anything)
}

func TestDeleteList_EnqueueFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("LinkedAssigneesInList", ctx, d.tx, "l-1").Return([]entity.AssigneeEntity{
		{TaskID: "task-1", Email: "a@klinik.de", ZimbraSyncEnabled: true, ExternalTaskID: strPtr("ext-a")},
	}, noErr)
	d.sync.On("Enqueue", ctx, d.tx, "task-1", "a@klinik.de", entity.SyncDelete, mock.Anything).
		Return((*entity.SyncQueueEntry)(nil), app_errors.Internal(errors.New("insert failed")))

	_, err := s.DeleteList(ctx, owner, "l-1")

	require.NotNil(t, err)
	d.repo.AssertNotCalled(t, "DeleteList", mock.Anything, mock.Anything, mock.Anything)
	d.tx.AssertNotCalled(t, "Commit", mock.Anything)
	d.tx.AssertCalled(t, "Rollback", ctx)
}

func TestCreateList_AdminCreatesForFolderOwner(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(admin)

	d.repo.On("GetFolder", ctx, d.tx, "f-1").Return(&entity.FolderEntity{ID: "f-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("InsertList", ctx, d.tx, mock.MatchedBy(func(l *entity.ListEntity) bool {
		return l.OwnerID == "owner-1" && l.FolderID == "f-1" && l.Name == "Frühdienst"
	})).Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	list, err := s.CreateList(ctx, admin, "f-1", folder_dto.CreateListRequest{Name: "Frühdienst"})

	require.Nil(t, err)
	assert.Equal(t, "l-1", list.ID)
}

func TestGetList_MemberCannotManage(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(member)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("ListMembers", ctx, d.tx, "l-1").Return([]entity.ListMember{{UserID: "member-1"}}, noErr)

	resp, err := s.GetList(ctx, member, "l-1")

	require.Nil(t, err)
	assert.False(t, resp.CanManage)
	assert.Len(t, resp.Members, 1)
}

func TestShareList_AddsMember(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("FindUserByEmail", ctx, d.tx, "kollegin@klinik.de").Return(&entity.UserEntity{ID: "member-1", IsActive: true}, noErr)
	d.repo.On("AddMember", ctx, d.tx, "l-1", "member-1").Return(noErr)
	d.repo.On("ListMembers", ctx, d.tx, "l-1").Return([]entity.ListMember{{UserID: "member-1"}}, noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	members, err := s.ShareList(ctx, owner, "l-1", folder_dto.ShareListRequest{Email: "kollegin@klinik.de"})

	require.Nil(t, err)
	assert.Len(t, members, 1)
}

func TestShareList_WithOwnerIsConflict(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(owner)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("FindUserByEmail", ctx, d.tx, "chef@klinik.de").Return(&entity.UserEntity{ID: "owner-1", IsActive: true}, noErr)

	_, err := s.ShareList(ctx, owner, "l-1", folder_dto.ShareListRequest{Email: "chef@klinik.de"})

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrConflict, err.Type)
}

func TestRemoveMember_MemberMayLeave(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(member)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)
	d.repo.On("RemoveMember", ctx, d.tx, "l-1", "member-1").Return(noErr)
	d.tx.On("Commit", ctx).Return(noErr)

	assert.Nil(t, s.RemoveMember(ctx, member, "l-1", "member-1"))
}

func TestRemoveMember_MemberCannotRemoveOthers(t *testing.T) {
	ctx := context.Background()
	s, d := newTestFolderService(member)

	d.repo.On("GetList", ctx, d.tx, "l-1").Return(&entity.ListEntity{ID: "l-1", OwnerID: "owner-1"}, noErr)

	err := s.RemoveMember(ctx, member, "l-1", "member-2")

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrForbidden, err.Type)
}
