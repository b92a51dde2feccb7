package auth_repo

import (
	"context"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// AuthRepoContract reicht die Methoden für das AuthRepo weiter.
type AuthRepoContract interface {
	CountUsersByEmail(ctx context.Context, email string) (int64, *app_errors.AppError)
	CountUsers(ctx context.Context) (int64, *app_errors.AppError)
	SaveUser(ctx context.Context, t tx.Tx, model entity.UserEntity) (string, *app_errors.AppError)
	FindByEmail(ctx context.Context, email string) (*entity.UserEntity, *app_errors.AppError)
}
