package auth_case

import (
	"context"

	auth_dto "github.com/neolist/neolist/internal/dtos/auth-dto"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// AuthServiceContract reicht die Methoden für den AuthService weiter.
type AuthServiceContract interface {
	RegisterUser(ctx context.Context, req auth_dto.RegisterUserRequest, meta auth_dto.LoginMetadata) (*auth_dto.AuthTokenResponse, *app_errors.AppError)
	LoginUser(ctx context.Context, req auth_dto.LoginUserRequest, meta auth_dto.LoginMetadata) (*auth_dto.AuthTokenResponse, *app_errors.AppError)
	LogoutUser(ctx context.Context, sessionID string) *app_errors.AppError
	ListAllUserDevices(ctx context.Context, userID, currentSessionID string) ([]auth_dto.ListAllUserDevicesResponse, *app_errors.AppError)
	LogoutAllDevices(ctx context.Context, userID string) *app_errors.AppError
}
