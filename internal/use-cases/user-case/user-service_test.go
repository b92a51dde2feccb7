package user_case

import (
	"context"
	"errors"
	"testing"

	user_dto "github.com/neolist/neolist/internal/dtos/user-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	user_repo "github.com/neolist/neolist/internal/repo/user-repo"
	use_cases "github.com/neolist/neolist/internal/use-cases"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/neolist/neolist/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var noErr = (*app_errors.AppError)(nil)

type userDeps struct {
	repo      *MockUserRepo
	txManager *use_cases.MockTxManager
	cache     *use_cases.MockCache
	sessions  *use_cases.MockSessionStore
	sync      *zimbra_sync_case.MockZimbraSyncService
	queue     *use_cases.MockTaskQueue
}

func newTestUserService() (*UserService, userDeps) {
	d := userDeps{
		repo:      new(MockUserRepo),
		txManager: new(use_cases.MockTxManager),
		cache:     new(use_cases.MockCache),
		sessions:  new(use_cases.MockSessionStore),
		sync:      new(zimbra_sync_case.MockZimbraSyncService),
		queue:     new(use_cases.MockTaskQueue),
	}
	return &UserService{
		repo:      d.repo,
		txManager: d.txManager,
		cache:     d.cache,
		sessions:  d.sessions,
		sync:      d.sync,
		queue:     d.queue,
	}, d
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestUserSelfProfile_CacheHit(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()

	d.cache.On("Get", ctx, "user_profile:user-1", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*user_dto.UserProfileResponse)
			dest.ID = "user-1"
			dest.DisplayName = "Aus dem Cache"
		}).
		Return(true, noErr)

	resp, err := s.UserSelfProfile(ctx, "user-1")

	require.Nil(t, err)
	assert.Equal(t, "Aus dem Cache", resp.DisplayName)
	d.repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestUserSelfProfile_CacheMissLoadsAndStores(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()

	d.cache.On("Get", ctx, "user_profile:user-1", mock.Anything).Return(false, noErr)
	d.repo.On("FindByUserID", ctx, "user-1").Return(&entity.UserEntity{
		ID: "user-1", Email: "pflege@klinik.de", DisplayName: "Ben Kurz", Role: entity.RoleUser, IsActive: true,
	}, noErr)
	d.cache.On("Set", ctx, "user_profile:user-1", mock.Anything, profileCacheTTL).Return(noErr)

	resp, err := s.UserSelfProfile(ctx, "user-1")

	require.Nil(t, err)
	assert.Equal(t, "pflege@klinik.de", resp.Email)
	assert.Equal(t, "user", resp.Role)
	d.cache.AssertExpectations(t)
}

func TestUpdateSelfProfile_EnablingSyncQueuesOpenAssignments(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()
	mockTx := new(use_cases.MockTx)

	d.repo.On("FindByUserID", ctx, "user-1").Return(&entity.UserEntity{ID: "user-1", ZimbraSyncEnabled: false, IsActive: true}, noErr)
	d.txManager.On("BeginAs", ctx, "user-1").Return(mockTx, noErr)
	d.repo.On("UpdateProfile", ctx, mockTx, "user-1", user_repo.UserUpdate{ZimbraSyncEnabled: boolPtr(true)}).
		Return(&entity.UserEntity{ID: "user-1", Email: "pflege@klinik.de", ZimbraSyncEnabled: true, IsActive: true}, noErr)

	open := entity.TaskAssignment{
		Task:     entity.TaskEntity{ID: "task-open", Title: "Verband wechseln", Priority: entity.PriorityMedium},
		Assignee: entity.AssigneeEntity{TaskID: "task-open", UserID: "user-1", Email: "pflege@klinik.de", ZimbraSyncEnabled: true},
	}
	linked := entity.TaskAssignment{
		Task:     entity.TaskEntity{ID: "task-linked", Title: "Schon verknüpft"},
		Assignee: entity.AssigneeEntity{TaskID: "task-linked", UserID: "user-1", ExternalTaskID: strPtr("ext-1")},
	}
	done := entity.TaskAssignment{
		Task:     entity.TaskEntity{ID: "task-done", Title: "Erledigt", IsCompleted: true},
		Assignee: entity.AssigneeEntity{TaskID: "task-done", UserID: "user-1"},
	}
	d.repo.On("ListAssignments", ctx, mockTx, "user-1").Return([]entity.TaskAssignment{open, linked, done}, noErr)
	d.sync.On("Enqueue", ctx, mockTx, "task-open", "pflege@klinik.de", entity.SyncCreate, mock.MatchedBy(func(p entity.SyncPayload) bool {
		return p.Title == "Verband wechseln"
	})).Return(&entity.SyncQueueEntry{ID: "q-1"}, noErr)
	mockTx.On("Commit", ctx).Return(noErr)
	mockTx.On("Rollback", ctx).Return(noErr)
	d.queue.On("EnqueueDrainSyncQueue", "zimbra_sync_enabled").Return(nil)
	d.cache.On("Del", ctx, "user_profile:user-1").Return(nil)

	resp, err := s.UpdateSelfProfile(ctx, user_dto.UpdateSelfProfileRequest{ZimbraSyncEnabled: boolPtr(true)}, "user-1")

	require.Nil(t, err)
	assert.Equal(t, 1, resp.QueuedSyncOps)
	assert.True(t, resp.Profile.ZimbraSyncEnabled)
	d.sync.AssertNumberOfCalls(t, "Enqueue", 1)
	d.queue.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestUpdateSelfProfile_RenameDoesNotTouchSync(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()
	mockTx := new(use_cases.MockTx)

	d.repo.On("FindByUserID", ctx, "user-1").Return(&entity.UserEntity{ID: "user-1", ZimbraSyncEnabled: true, IsActive: true}, noErr)
	d.txManager.On("BeginAs", ctx, "user-1").Return(mockTx, noErr)
	d.repo.On("UpdateProfile", ctx, mockTx, "user-1", user_repo.UserUpdate{DisplayName: strPtr("Neuer Name")}).
		Return(&entity.UserEntity{ID: "user-1", DisplayName: "Neuer Name", ZimbraSyncEnabled: true, IsActive: true}, noErr)
	mockTx.On("Commit", ctx).Return(noErr)
	mockTx.On("Rollback", ctx).Return(noErr)
	d.cache.On("Del", ctx, "user_profile:user-1").Return(errors.New("redis weg"))

	resp, err := s.UpdateSelfProfile(ctx, user_dto.UpdateSelfProfileRequest{DisplayName: strPtr("Neuer Name")}, "user-1")

	require.Nil(t, err)
	assert.Equal(t, 0, resp.QueuedSyncOps)
	d.repo.AssertNotCalled(t, "ListAssignments", mock.Anything, mock.Anything, mock.Anything)
	d.queue.AssertNotCalled(t, "EnqueueDrainSyncQueue", mock.Anything)
}

func TestUpdateSelfProfile_EmptyRequest(t *testing.T) {
	s, _ := newTestUserService()

	_, err := s.UpdateSelfProfile(context.Background(), user_dto.UpdateSelfProfileRequest{}, "user-1")

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrInvalidBody, err.Type)
}

func TestDeactivateSelfUser_WrongPassword(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()
	hash, _ := utils.GenerateHash("richtig123")

	d.repo.On("FindByUserID", ctx, "user-1").Return(&entity.UserEntity{ID: "user-1", PasswordHash: hash}, noErr)

	err := s.DeactivateSelfUser(ctx, user_dto.DeactivateSelfUserRequest{Password: "falsch"}, "user-1")

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrUnauthorized, err.Type)
	d.txManager.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestDeactivateSelfUser_RevokesSessions(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()
	mockTx := new(use_cases.MockTx)
	hash, _ := utils.GenerateHash("richtig123")

	d.repo.On("FindByUserID", ctx, "user-1").Return(&entity.UserEntity{ID: "user-1", PasswordHash: hash}, noErr)
	d.txManager.On("Begin", ctx).Return(mockTx, noErr)
	d.repo.On("Deactivate", ctx, mockTx, "user-1").Return(noErr)
	mockTx.On("Commit", ctx).Return(noErr)
	mockTx.On("Rollback", ctx).Return(noErr)
	d.cache.On("Del", ctx, "user_profile:user-1").Return(nil)
	d.sessions.On("DeleteAllForUser", ctx, "user-1").Return(noErr)

	err := s.DeactivateSelfUser(ctx, user_dto.DeactivateSelfUserRequest{Password: "richtig123"}, "user-1")

	assert.Nil(t, err)
	d.sessions.AssertExpectations(t)
}

func TestListUsers_Pagination(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()

	d.repo.On("ListUsers", ctx, 2, 2).Return([]entity.UserEntity{{ID: "u-3"}, {ID: "u-4"}}, int64(5), noErr)

	resp, err := s.ListUsers(ctx, user_dto.ListUsersQuery{Page: 2, Limit: 2})

	require.Nil(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 5, resp.Pagination.Total)
}

func TestSetUserRole_CannotChangeOwnRole(t *testing.T) {
	s, d := newTestUserService()

	_, err := s.SetUserRole(context.Background(), "admin-1", "admin-1", user_dto.SetUserRoleRequest{Role: "user"})

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrForbidden, err.Type)
	d.txManager.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestSetUserRole_PromotesAndRevokesSessions(t *testing.T) {
	ctx := context.Background()
	s, d := newTestUserService()
	mockTx := new(use_cases.MockTx)

	d.txManager.On("Begin", ctx).Return(mockTx, noErr)
	d.repo.On("SetRole", ctx, mockTx, "user-2", entity.RoleAdmin).Return(&entity.UserEntity{ID: "user-2", Role: entity.RoleAdmin}, noErr)
	mockTx.On("Commit", ctx).Return(noErr)
	mockTx.On("Rollback", ctx).Return(noErr)
	d.cache.On("Del", ctx, "user_profile:user-2").Return(nil)
	d.sessions.On("DeleteAllForUser", ctx, "user-2").Return(noErr)

	resp, err := s.SetUserRole(ctx, "admin-1", "user-2", user_dto.SetUserRoleRequest{Role: "admin"})

	require.Nil(t, err)
	assert.Equal(t, "admin", resp.Role)
	d.sessions.AssertExpectations(t)
}

func TestSetUserRole_InvalidRole(t *testing.T) {
	s, _ := newTestUserService()

	_, err := s.SetUserRole(context.Background(), "admin-1", "user-2", user_dto.SetUserRoleRequest{Role: "chefarzt"})

	require.NotNil(t, err)
	assert.Equal(t, app_errors.ErrValidation, err.Type)
}
