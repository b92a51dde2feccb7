package user_repo

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// UserUpdate: nil-Felder bleiben unverändert.
type UserUpdate struct {
	DisplayName       *string
	ZimbraSyncEnabled *bool
}

type UserRepoContract interface {
	FindByUserID(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError)
	UpdateProfile(ctx context.Context, t tx.Tx, userID string, model UserUpdate) (*entity.UserEntity, *app_errors.AppError)
	Deactivate(ctx context.Context, t tx.Tx, userID string) *app_errors.AppError
	ListUsers(ctx context.Context, limit, offset int) ([]entity.UserEntity, int64, *app_errors.AppError)
	SetRole(ctx context.Context, t tx.Tx, userID string, role entity.UserRole) (*entity.UserEntity, *app_errors.AppError)
	ListAssignments(ctx context.Context, t tx.Tx, userID string) ([]entity.TaskAssignment, *app_errors.AppError)
}
