package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx. Los repositorios lo reciben para
// funcionar igual fuera y dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

// atomic ejecuta fn en una transacción propia. Si q ya es una tx, pgx abre un savepoint,
// así cabecera y líneas se escriben juntas o no se escribe nada.
func atomic(ctx context.Context, q Querier, fn func(q Querier) error) error {
	return pgx.BeginFunc(ctx, q, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
