package tx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// ActorSetting ist die Sitzungsvariable, die die RLS-Policies auswerten.
const ActorSetting = "neolist.actor_id"

type PgxTxManager struct {
	db *pgxpool.Pool
}

func NewPgxTxManager(db *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{db: db}
}

func (m *PgxTxManager) Begin(ctx context.Context) (Tx, *app_errors.AppError) {
	t, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, app_errors.Internal(err)
	}

	return &PgxTx{Tx: t}, nil
}

func (m *PgxTxManager) BeginAs(ctx context.Context, actorID string) (Tx, *app_errors.AppError) {
	t, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, app_errors.Internal(err)
	}

	// is_local = true: gilt nur bis Commit/Rollback, die Pool-Verbindung bleibt sauber.
	if _, err := t.Exec(ctx, "SELECT set_config($1, $2, true)", ActorSetting, actorID); err != nil {
		_ = t.Rollback(ctx)
		return nil, app_errors.Internal(err)
	}

	return &PgxTx{Tx: t}, nil
}

type PgxTx struct {
	Tx pgx.Tx
}

func (t *PgxTx) Commit(ctx context.Context) *app_errors.AppError {
	if err := t.Tx.Commit(ctx); err != nil {
		return app_errors.Internal(err)
	}
	return nil
}

// Rollback nach erfolgreichem Commit ist ein No-op, daher sicher per defer.
func (t *PgxTx) Rollback(ctx context.Context) *app_errors.AppError {
	_ = t.Tx.Rollback(ctx)
	return nil
}
