package memory

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ planning.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones sobre el store. Si fn falla se restaura el estado previo.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) RunPlanning(ctx context.Context, fn func(
	mrRepo repository.MaterialRequirementRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BOMRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := r.s.snapshot()
	g := guard{s: r.s, inTx: true}
	err := fn(
		&MaterialRequirementRepo{g},
		&OrderRepo{g},
		&ProductRepo{g},
		&BOMRepo{g},
	)
	if err != nil {
		r.s.restore(before)
		return err
	}
	return nil
}
