package user_case

import (
	"context"

	user_dto "github.com/neolist/neolist/internal/dtos/user-dto"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type UserServiceContract interface {
	UserSelfProfile(ctx context.Context, userID string) (*user_dto.UserProfileResponse, *app_errors.AppError)
	UpdateSelfProfile(ctx context.Context, req user_dto.UpdateSelfProfileRequest, userID string) (*user_dto.UpdateSelfProfileResponse, *app_errors.AppError)
	DeactivateSelfUser(ctx context.Context, req user_dto.DeactivateSelfUserRequest, userID string) *app_errors.AppError
	ListUsers(ctx context.Context, q user_dto.ListUsersQuery) (*user_dto.ListUsersResponse, *app_errors.AppError)
	SetUserRole(ctx context.Context, actorID, userID string, req user_dto.SetUserRoleRequest) (*user_dto.UserProfileResponse, *app_errors.AppError)
}
