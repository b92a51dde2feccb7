package session

import (
	"context"
	"time"

	app_errors "github.com/neolist/neolist/internal/errors"
)

// Session ist der serverseitige Zustand eines Logins. Ein Token ist nur gültig,
// solange seine Session existiert.
type Session struct {
	JTI       string    `json:"jti"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	Device    string    `json:"device"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	LoginAt   time.Time `json:"login_at"`
}

type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) *app_errors.AppError
	// Get liefert (nil, nil), wenn die Session abgelaufen oder beendet ist.
	Get(ctx context.Context, jti string) (*Session, *app_errors.AppError)
	Delete(ctx context.Context, s *Session) *app_errors.AppError
	ListByUser(ctx context.Context, userID string) ([]Session, *app_errors.AppError)
	DeleteAllForUser(ctx context.Context, userID string) *app_errors.AppError
}
