package cache

import (
	"context"
	"time"

	app_errors "github.com/neolist/neolist/internal/errors"
)

// Cache speichert JSON-serialisierbare Werte mit Ablaufzeit. Get dekodiert in dest
// und meldet, ob der Schlüssel vorhanden war.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError)
	Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError
	Del(ctx context.Context, key string) error
}
