package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/mrp"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// Calculate ejecuta el MRP sobre el requerimiento: explota las órdenes origen, agrega la demanda,
// netea contra stock y reemplaza los ítems de forma atómica. Si algo falla, ítems y estado
// quedan como estaban.
func (uc *MaterialRequirementUseCase) Calculate(ctx context.Context, id string) (*dto.MaterialRequirementResponse, error) {
	started := time.Now()
	release, err := uc.locker.Obtain(ctx, lockKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	var result *entity.MaterialRequirement
	err = uc.tx.RunPlanning(ctx, func(
		mrRepo repository.MaterialRequirementRepository,
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BOMRepository,
	) error {
		// ── 1. Cargar y bloquear el requerimiento ─────────────────────────────────
		req, err := uc.getForUpdate(ctx, mrRepo, id)
		if err != nil {
			return err
		}
		if !req.CanCalculate() {
			return domain.NewConflictError("no se puede calcular un requerimiento en estado %s", req.Status)
		}

		// ── 2. Órdenes origen ─────────────────────────────────────────────────────
		orders, err := orderRepo.GetByIDs(ctx, req.SourceOrderIDs)
		if err != nil {
			return fmt.Errorf("cargar órdenes origen: %w", err)
		}
		if missing := missingOrders(req.SourceOrderIDs, orders); len(missing) > 0 {
			return fmt.Errorf("%w: órdenes de origen inexistentes: %s", domain.ErrNotFound, strings.Join(missing, ", "))
		}

		// ── 3. Snapshot del catálogo ──────────────────────────────────────────────
		products, err := productRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("cargar catálogo: %w", err)
		}
		boms, err := bomRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("cargar BOMs activas: %w", err)
		}

		// ── 4. Planificar ─────────────────────────────────────────────────────────
		items, err := uc.planner.Plan(mrp.NewCatalog(products, boms), req, orders)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.New().String()
		}
		req.ApplyCalculation(items, time.Now())

		// ── 5. Persistir ítems y estado ───────────────────────────────────────────
		if err := mrRepo.ReplaceCalculation(ctx, req); err != nil {
			return fmt.Errorf("guardar cálculo: %w", err)
		}
		result = req
		return nil
	})
	if err != nil {
		uc.logFailure(id, err)
		return nil, err
	}

	uc.log.Info().
		Str("requirement_id", id).
		Str("reference", result.ReferenceNumber).
		Int("items", len(result.Items)).
		Dur("elapsed", time.Since(started)).
		Msg("requerimiento calculado")
	return toRequirementResponse(result), nil
}

// logFailure registra los errores de negocio como warning y el resto como error.
func (uc *MaterialRequirementUseCase) logFailure(id string, err error) {
	kind := errorKind(err)
	ev := uc.log.Error()
	if kind != "internal" {
		ev = uc.log.Warn()
	}
	ev.Err(err).Str("requirement_id", id).Str("kind", kind).Msg("cálculo MRP fallido")
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrCyclicBOM):
		return "cyclic_bom"
	case errors.Is(err, domain.ErrUnresolvedBOM):
		return "unresolved_bom"
	case errors.Is(err, domain.ErrIneligibleSourceOrder):
		return "ineligible_source_order"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrLocked):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "internal"
}
