package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ planning.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPlanning inicia una transacción REPEATABLE READ (snapshot estable del catálogo durante el cálculo),
// ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunPlanning(ctx context.Context, fn func(
	mrRepo repository.MaterialRequirementRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BOMRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	mrRepo := NewMaterialRequirementRepository(tx)
	orderRepo := NewOrderRepository(tx)
	productRepo := NewProductRepository(tx)
	bomRepo := NewBOMRepository(tx)

	if err := fn(mrRepo, orderRepo, productRepo, bomRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
