package folder_case

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/mock"
)

type MockFolderRepo struct {
	mock.Mock
}

func (m *MockFolderRepo) InsertFolder(ctx context.Context, t tx.Tx, folder *entity.FolderEntity) (*entity.FolderEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, folder)
	return args.Get(0).(*entity.FolderEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) ListFolders(ctx context.Context, t tx.Tx) ([]entity.FolderEntity, *app_errors.AppError) {
	args := m.Called(ctx, t)
	return args.Get(0).([]entity.FolderEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) GetFolder(ctx context.Context, t tx.Tx, folderID string) (*entity.FolderEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, folderID)
	return args.Get(0).(*entity.FolderEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) RenameFolder(ctx context.Context, t tx.Tx, folderID, name string) (*entity.FolderEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, folderID, name)
	return args.Get(0).(*entity.FolderEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) DeleteFolder(ctx context.Context, t tx.Tx, folderID string) *app_errors.AppError {
	args := m.Called(ctx, t, folderID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockFolderRepo) InsertList(ctx context.Context, t tx.Tx, list *entity.ListEntity) (*entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, list)
	return args.Get(0).(*entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) ListListsInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, folderID)
	return args.Get(0).([]entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) ListSharedLists(ctx context.Context, t tx.Tx, userID string) ([]entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, userID)
	return args.Get(0).([]entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).(*entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) RenameList(ctx context.Context, t tx.Tx, listID, name string) (*entity.ListEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID, name)
	return args.Get(0).(*entity.ListEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) DeleteList(ctx context.Context, t tx.Tx, listID string) *app_errors.AppError {
	args := m.Called(ctx, t, listID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockFolderRepo) FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, email)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) AddMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, listID, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockFolderRepo) RemoveMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError {
	args := m.Called(ctx, t, listID, userID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockFolderRepo) ListMembers(ctx context.Context, t tx.Tx, listID string) ([]entity.ListMember, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).([]entity.ListMember), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) LinkedAssigneesInFolder(ctx context.Context, t tx.Tx, folderID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, folderID)
	return args.Get(0).([]entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockFolderRepo) LinkedAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError) {
	args := m.Called(ctx, t, listID)
	return args.Get(0).([]entity.AssigneeEntity), args.Get(1).(*app_errors.AppError)
}
