package planning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/mrp"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

// MaterialRequirementUseCase ciclo de vida y cálculo de requerimientos de materiales.
type MaterialRequirementUseCase struct {
	repo      repository.MaterialRequirementRepository
	orderRepo repository.OrderRepository
	tx        TxRunner
	locker    Locker
	planner   *mrp.Planner
	exporter  SpreadsheetExporter
	reporter  ReportGenerator
	log       *logger.Logger
}

// Deps dependencias del caso de uso.
type Deps struct {
	Repo      repository.MaterialRequirementRepository
	OrderRepo repository.OrderRepository
	Tx        TxRunner
	Locker    Locker
	MaxDepth  int
	Exporter  SpreadsheetExporter
	Reporter  ReportGenerator
	Logger    *logger.Logger
}

// NewMaterialRequirementUseCase construye el caso de uso inyectando todas sus dependencias.
func NewMaterialRequirementUseCase(d Deps) *MaterialRequirementUseCase {
	return &MaterialRequirementUseCase{
		repo:      d.Repo,
		orderRepo: d.OrderRepo,
		tx:        d.Tx,
		locker:    d.Locker,
		planner:   mrp.NewPlanner(d.MaxDepth),
		exporter:  d.Exporter,
		reporter:  d.Reporter,
		log:       d.Logger.Component("planning"),
	}
}

// Create registra un requerimiento en draft. No persiste nada si alguna validación falla.
func (uc *MaterialRequirementUseCase) Create(ctx context.Context, userID string, in dto.CreateMaterialRequirementRequest) (*dto.MaterialRequirementResponse, error) {
	reference := strings.TrimSpace(in.ReferenceNumber)
	if reference == "" {
		return nil, domain.NewValidationError("reference_number", "es requerido")
	}
	if in.PlanningStartDate == nil {
		return nil, domain.NewValidationError("planning_start_date", "es requerida")
	}
	if err := validateWindow(*in.PlanningStartDate, in.PlanningEndDate); err != nil {
		return nil, err
	}
	sources, err := uc.resolveSources(ctx, in.SourceOrders)
	if err != nil {
		return nil, err
	}
	if err := ensureUniqueReference(ctx, uc.repo, reference, ""); err != nil {
		return nil, err
	}

	considerStock := true
	if in.ConsiderStock != nil {
		considerStock = *in.ConsiderStock
	}
	considerMin := false
	if in.ConsiderMinStock != nil {
		considerMin = *in.ConsiderMinStock
	}
	now := time.Now()
	req := &entity.MaterialRequirement{
		ID:                uuid.New().String(),
		ReferenceNumber:   reference,
		Status:            entity.RequirementDraft,
		CreationDate:      now,
		PlanningStartDate: *in.PlanningStartDate,
		PlanningEndDate:   in.PlanningEndDate,
		ConsiderStock:     considerStock,
		ConsiderMinStock:  considerMin,
		Notes:             in.Notes,
		CreatedBy:         userID,
		SourceOrderIDs:    sources,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return toRequirementResponse(req), nil
}

// GetByID devuelve el requerimiento con ítems e IDs de órdenes origen.
func (uc *MaterialRequirementUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialRequirementResponse, error) {
	req, err := uc.get(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(req), nil
}

// GetDetails devuelve el requerimiento con las órdenes origen resueltas.
func (uc *MaterialRequirementUseCase) GetDetails(ctx context.Context, id string) (*dto.MaterialRequirementDetailsResponse, error) {
	req, err := uc.get(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.GetByIDs(ctx, req.SourceOrderIDs)
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialRequirementDetailsResponse{
		MaterialRequirementResponse: *toRequirementResponse(req),
		SourceOrderDetails:          make([]dto.SourceOrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		out.SourceOrderDetails = append(out.SourceOrderDetails, dto.SourceOrderResponse{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			Status:       string(o.Status),
			RequiredDate: o.RequiredDate,
			OrderDate:    o.OrderDate,
		})
	}
	return out, nil
}

// List lista requerimientos, opcionalmente filtrando por estado.
func (uc *MaterialRequirementUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.MaterialRequirementListResponse, error) {
	page.DefaultPage()
	filter := repository.MaterialRequirementFilter{Limit: page.Limit, Offset: page.Offset}
	if status != "" {
		s := entity.RequirementStatus(strings.ToLower(status))
		if !s.Valid() {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
		filter.Status = &s
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialRequirementSummary, 0, len(list))
	for _, r := range list {
		items = append(items, dto.MaterialRequirementSummary{
			ID:                r.ID,
			ReferenceNumber:   r.ReferenceNumber,
			Status:            string(r.Status),
			CreationDate:      r.CreationDate,
			CalculationDate:   r.CalculationDate,
			PlanningStartDate: r.PlanningStartDate,
			PlanningEndDate:   r.PlanningEndDate,
			SourceOrderCount:  len(r.SourceOrderIDs),
		})
	}
	return &dto.MaterialRequirementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update edita la configuración en draft o calculated. No recalcula.
func (uc *MaterialRequirementUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequirementRequest) (*dto.MaterialRequirementResponse, error) {
	var out *entity.MaterialRequirement
	err := uc.locked(ctx, id, func(mrRepo repository.MaterialRequirementRepository, orderRepo repository.OrderRepository) error {
		req, err := uc.getForUpdate(ctx, mrRepo, id)
		if err != nil {
			return err
		}
		if !req.CanEdit() {
			return domain.NewConflictError("no se puede editar un requerimiento en estado %s", req.Status)
		}
		if in.ReferenceNumber != nil {
			reference := strings.TrimSpace(*in.ReferenceNumber)
			if reference == "" {
				return domain.NewValidationError("reference_number", "es requerido")
			}
			if reference != req.ReferenceNumber {
				if err := ensureUniqueReference(ctx, mrRepo, reference, req.ID); err != nil {
					return err
				}
			}
			req.ReferenceNumber = reference
		}
		if in.PlanningStartDate != nil {
			req.PlanningStartDate = *in.PlanningStartDate
		}
		switch {
		case in.ClearPlanningEndDate && in.PlanningEndDate != nil:
			return domain.NewValidationError("clear_planning_end_date", "no se puede combinar con planning_end_date")
		case in.ClearPlanningEndDate:
			req.PlanningEndDate = nil
		case in.PlanningEndDate != nil:
			req.PlanningEndDate = in.PlanningEndDate
		}
		if err := validateWindow(req.PlanningStartDate, req.PlanningEndDate); err != nil {
			return err
		}
		if in.ConsiderStock != nil {
			req.ConsiderStock = *in.ConsiderStock
		}
		if in.ConsiderMinStock != nil {
			req.ConsiderMinStock = *in.ConsiderMinStock
		}
		if in.Notes != nil {
			req.Notes = *in.Notes
		}
		if in.SourceOrders != nil {
			sources, err := resolveSourcesWith(ctx, orderRepo, *in.SourceOrders)
			if err != nil {
				return err
			}
			req.SourceOrderIDs = sources
		}
		req.UpdatedAt = time.Now()
		if err := mrRepo.Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(out), nil
}

// Delete elimina el requerimiento. Prohibido en processing y completed.
func (uc *MaterialRequirementUseCase) Delete(ctx context.Context, id string) error {
	return uc.locked(ctx, id, func(mrRepo repository.MaterialRequirementRepository, _ repository.OrderRepository) error {
		req, err := uc.getForUpdate(ctx, mrRepo, id)
		if err != nil {
			return err
		}
		if !req.CanDelete() {
			return domain.NewConflictError("no se puede eliminar un requerimiento en estado %s", req.Status)
		}
		return mrRepo.Delete(ctx, id)
	})
}

// ChangeStatus aplica una transición manual: calculated→processing, processing→completed
// o cualquier estado no terminal→cancelled.
func (uc *MaterialRequirementUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeStatusRequest) (*dto.MaterialRequirementResponse, error) {
	target := entity.RequirementStatus(strings.ToLower(in.Status))
	if !target.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	var out *entity.MaterialRequirement
	err := uc.locked(ctx, id, func(mrRepo repository.MaterialRequirementRepository, _ repository.OrderRepository) error {
		req, err := uc.getForUpdate(ctx, mrRepo, id)
		if err != nil {
			return err
		}
		if !req.CanTransitionTo(target) {
			return domain.NewConflictError("transición no permitida: %s -> %s", req.Status, target)
		}
		req.Status = target
		req.UpdatedAt = time.Now()
		if err := mrRepo.Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("requirement_id", id).Str("status", string(target)).Msg("estado de requerimiento actualizado")
	return toRequirementResponse(out), nil
}

// locked ejecuta fn con el lock del requerimiento y dentro de una transacción.
func (uc *MaterialRequirementUseCase) locked(ctx context.Context, id string, fn func(repository.MaterialRequirementRepository, repository.OrderRepository) error) error {
	release, err := uc.locker.Obtain(ctx, lockKey(id))
	if err != nil {
		return err
	}
	defer release()
	return uc.tx.RunPlanning(ctx, func(
		mrRepo repository.MaterialRequirementRepository,
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.BOMRepository,
	) error {
		return fn(mrRepo, orderRepo)
	})
}

func lockKey(id string) string {
	return "mrp:requirement:" + id
}

func (uc *MaterialRequirementUseCase) get(ctx context.Context, repo repository.MaterialRequirementRepository, id string) (*entity.MaterialRequirement, error) {
	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: requerimiento %s", domain.ErrNotFound, id)
	}
	return req, nil
}

func (uc *MaterialRequirementUseCase) getForUpdate(ctx context.Context, repo repository.MaterialRequirementRepository, id string) (*entity.MaterialRequirement, error) {
	req, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: requerimiento %s", domain.ErrNotFound, id)
	}
	return req, nil
}

func ensureUniqueReference(ctx context.Context, repo repository.MaterialRequirementRepository, reference, selfID string) error {
	existing, err := repo.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError("reference_number", fmt.Sprintf("el número de referencia %s ya existe", reference))
	}
	return nil
}

func (uc *MaterialRequirementUseCase) resolveSources(ctx context.Context, ids []string) ([]string, error) {
	return resolveSourcesWith(ctx, uc.orderRepo, ids)
}

// resolveSourcesWith valida que haya al menos una orden, elimina duplicados y comprueba que existan.
// El estado CONFIRMED se verifica al calcular.
func resolveSourcesWith(ctx context.Context, orderRepo repository.OrderRepository, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, domain.NewValidationError("source_orders", "se requiere al menos una orden de origen")
	}
	orders, err := orderRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if missing := missingOrders(unique, orders); len(missing) > 0 {
		return nil, fmt.Errorf("%w: órdenes de origen inexistentes: %s", domain.ErrNotFound, strings.Join(missing, ", "))
	}
	return unique, nil
}

func missingOrders(ids []string, found []*entity.Order) []string {
	have := make(map[string]bool, len(found))
	for _, o := range found {
		have[o.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func validateWindow(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return domain.NewValidationError("planning_end_date", "no puede ser anterior a planning_start_date")
	}
	return nil
}
