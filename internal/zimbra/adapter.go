package zimbra

import (
	"context"
	"time"

	"github.com/neolist/neolist/internal/abstraction/cache"
	"github.com/neolist/neolist/internal/entity"
)

// Adapter ist die Sicht des Reconcilers auf den Zimbra-Aufgabenspeicher. Jede
// Methode arbeitet im Namen genau einer Identität (email).
type Adapter interface {
	CreateTask(ctx context.Context, email string, payload entity.SyncPayload) (*CreateResult, error)
	UpdateTask(ctx context.Context, email, externalID string, payload entity.SyncPayload) error
	DeleteTask(ctx context.Context, email, externalID string) error
}

type CreateResult struct {
	ExternalID string
	ETag       string
}

type Config struct {
	BaseURL     string
	PreauthKey  string
	TasksFolder string
	Timeout     time.Duration
	// InsecureSkipVerify gilt nur für den Transport dieses Adapters.
	InsecureSkipVerify bool
	SessionTTL         time.Duration
}

// NewAdapter liefert ein nil-Adapter, wenn keine BaseURL konfiguriert ist. Der
// Reconciler meldet dann jede Zuweisung als skipped.
func NewAdapter(cfg Config, sessions cache.Cache) (Adapter, error) {
	if cfg.BaseURL == "" {
		return nil, nil
	}
	a, err := NewCalDAVAdapter(cfg, sessions)
	if err != nil {
		return nil, err
	}
	return a, nil
}
