package folder_case

import (
	"context"

	"github.com/neolist/neolist/internal/dtos"
	folder_dto "github.com/neolist/neolist/internal/dtos/folder-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type FolderServiceContract interface {
	CreateFolder(ctx context.Context, actor entity.Actor, req folder_dto.CreateFolderRequest) (*entity.FolderEntity, *app_errors.AppError)
	ListFolders(ctx context.Context, actor entity.Actor) (*folder_dto.FolderOverviewResponse, *app_errors.AppError)
	GetFolder(ctx context.Context, actor entity.Actor, folderID string) (*folder_dto.FolderDetailResponse, *app_errors.AppError)
	RenameFolder(ctx context.Context, actor entity.Actor, folderID string, req folder_dto.RenameRequest) (*entity.FolderEntity, *app_errors.AppError)
	DeleteFolder(ctx context.Context, actor entity.Actor, folderID string) (*dtos.DeleteResponse, *app_errors.AppError)

	CreateList(ctx context.Context, actor entity.Actor, folderID string, req folder_dto.CreateListRequest) (*entity.ListEntity, *app_errors.AppError)
	GetList(ctx context.Context, actor entity.Actor, listID string) (*folder_dto.ListDetailResponse, *app_errors.AppError)
	RenameList(ctx context.Context, actor entity.Actor, listID string, req folder_dto.RenameRequest) (*entity.ListEntity, *app_errors.AppError)
	DeleteList(ctx context.Context, actor entity.Actor, listID string) (*dtos.DeleteResponse, *app_errors.AppError)
	ShareList(ctx context.Context, actor entity.Actor, listID string, req folder_dto.ShareListRequest) ([]entity.ListMember, *app_errors.AppError)
	RemoveMember(ctx context.Context, actor entity.Actor, listID, userID string) *app_errors.AppError
}
