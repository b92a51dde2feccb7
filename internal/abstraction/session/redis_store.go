package session

import (
	"context"
	"fmt"
	"time"

	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func sessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// RedisStore hält jede Session unter "session:{jti}" und pro Benutzer ein Set der
// JTIs unter "user_sessions:{userID}".
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) *app_errors.AppError {
	if err := utils.SetCacheData(ctx, r.client, sessionKey(s.JTI), s, ttl); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, userSessionsKey(s.UserID), s.JTI).Err(); err != nil {
		return app_errors.Internal(err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, jti string) (*Session, *app_errors.AppError) {
	return utils.GetCacheData[Session](ctx, r.client, sessionKey(jti))
}

func (r *RedisStore) Delete(ctx context.Context, s *Session) *app_errors.AppError {
	if err := utils.DeleteCacheData(ctx, r.client, sessionKey(s.JTI)); err != nil {
		return app_errors.Internal(err)
	}
	if err := r.client.SRem(ctx, userSessionsKey(s.UserID), s.JTI).Err(); err != nil {
		return app_errors.Internal(err)
	}
	return nil
}

// ListByUser räumt dabei JTIs abgelaufener Sessions aus dem Set.
func (r *RedisStore) ListByUser(ctx context.Context, userID string) ([]Session, *app_errors.AppError) {
	jtis, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, app_errors.Internal(err)
	}

	out := make([]Session, 0, len(jtis))
	for _, jti := range jtis {
		s, appErr := r.Get(ctx, jti)
		if appErr != nil {
			return nil, appErr
		}
		if s == nil {
			if err := r.client.SRem(ctx, userSessionsKey(userID), jti).Err(); err != nil {
				log.Warn().Err(err).Str("jti", jti).Msg("Abgelaufene Session konnte nicht aus dem Set entfernt werden")
			}
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *RedisStore) DeleteAllForUser(ctx context.Context, userID string) *app_errors.AppError {
	key := userSessionsKey(userID)
	jtis, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return app_errors.Internal(err)
	}

	for _, jti := range jtis {
		if err := utils.DeleteCacheData(ctx, r.client, sessionKey(jti)); err != nil {
			return app_errors.Internal(err)
		}
	}
	if err := utils.DeleteCacheData(ctx, r.client, key); err != nil {
		return app_errors.Internal(err)
	}
	return nil
}
