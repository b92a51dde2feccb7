package utils

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/redis/go-redis/v9"
)

// GetCacheData liest einen JSON-Wert aus Redis. Ein Cache-Miss liefert (nil, nil).
func GetCacheData[T any](ctx context.Context, rdb redis.Cmdable, cacheKey string) (*T, *app_errors.AppError) {
	val, err := rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, app_errors.Internal(err)
	}

	var data T
	if err := json.Unmarshal(val, &data); err != nil {
		return nil, app_errors.Internal(err)
	}
	return &data, nil
}

// SetCacheData speichert data als JSON mit Ablaufzeit.
func SetCacheData[T any](ctx context.Context, rdb redis.Cmdable, cacheKey string, data *T, expire time.Duration) *app_errors.AppError {
	bytes, err := json.Marshal(data)
	if err != nil {
		return app_errors.Internal(err)
	}

	if err := rdb.Set(ctx, cacheKey, bytes, expire).Err(); err != nil {
		return app_errors.Internal(err)
	}
	return nil
}

// DeleteCacheData ist idempotent; ein fehlender Schlüssel ist kein Fehler.
func DeleteCacheData(ctx context.Context, rdb redis.Cmdable, cacheKey string) error {
	return rdb.Del(ctx, cacheKey).Err()
}
