package tx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type Tx interface {
	Commit(ctx context.Context) *app_errors.AppError
	Rollback(ctx context.Context) *app_errors.AppError
}

// TxManager öffnet Transaktionen. BeginAs setzt den Sicherheitskontext (actor) für
// die Row-Level-Security; Begin läuft ohne Kontext und ist Worker- und
// Admin-Pfaden vorbehalten.
type TxManager interface {
	Begin(ctx context.Context) (Tx, *app_errors.AppError)
	BeginAs(ctx context.Context, actorID string) (Tx, *app_errors.AppError)
}

// Querier ist die gemeinsame Schnittmenge von *pgxpool.Pool und pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierOf liefert die pgx-Transaktion hinter t oder fallback, wenn t nil ist
// oder keine pgx-Transaktion kapselt (z. B. Mocks in Tests).
func QuerierOf(t Tx, fallback Querier) Querier {
	if p, ok := t.(*PgxTx); ok && p != nil {
		return p.Tx
	}
	return fallback
}
