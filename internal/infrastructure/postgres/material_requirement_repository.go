package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.MaterialRequirementRepository = (*MaterialRequirementRepo)(nil)

// MaterialRequirementRepo implementación de MaterialRequirementRepository (usable con pool o tx).
type MaterialRequirementRepo struct {
	q Querier
}

// NewMaterialRequirementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRequirementRepository(q Querier) *MaterialRequirementRepo {
	return &MaterialRequirementRepo{q: q}
}

const requirementColumns = `id, reference_number, status, creation_date, calculation_date, planning_start_date,
	planning_end_date, consider_stock, consider_min_stock, notes, created_by, updated_at`

// Create persiste la cabecera y las órdenes origen en una sola transacción.
func (r *MaterialRequirementRepo) Create(ctx context.Context, req *entity.MaterialRequirement) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&MaterialRequirementRepo{q: q}).create(ctx, req)
	})
}

func (r *MaterialRequirementRepo) create(ctx context.Context, req *entity.MaterialRequirement) error {
	query := `
		INSERT INTO material_requirements (` + requirementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.ReferenceNumber, req.Status, req.CreationDate, req.CalculationDate, req.PlanningStartDate,
		req.PlanningEndDate, req.ConsiderStock, req.ConsiderMinStock, nullIfEmpty(req.Notes),
		nullIfEmpty(req.CreatedBy), req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("reference_number", fmt.Sprintf("el número de referencia %s ya existe", req.ReferenceNumber))
		}
		return fmt.Errorf("insert material requirement: %w", err)
	}
	return r.replaceSources(ctx, req)
}

// GetByID carga cabecera, órdenes origen e ítems.
func (r *MaterialRequirementRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequirement, error) {
	return r.load(ctx, `SELECT `+requirementColumns+` FROM material_requirements WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID, bloqueando la fila hasta el fin de la transacción.
func (r *MaterialRequirementRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequirement, error) {
	return r.load(ctx, `SELECT `+requirementColumns+` FROM material_requirements WHERE id = $1 FOR UPDATE`, id)
}

// GetByReference obtiene solo la cabecera por número de referencia.
func (r *MaterialRequirementRepo) GetByReference(ctx context.Context, reference string) (*entity.MaterialRequirement, error) {
	m, err := scanRequirement(r.q.QueryRow(ctx,
		`SELECT `+requirementColumns+` FROM material_requirements WHERE reference_number = $1`, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material requirement by reference: %w", err)
	}
	return m, nil
}

// Update persiste cabecera y órdenes origen; no toca los ítems.
func (r *MaterialRequirementRepo) Update(ctx context.Context, req *entity.MaterialRequirement) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&MaterialRequirementRepo{q: q}).update(ctx, req)
	})
}

func (r *MaterialRequirementRepo) update(ctx context.Context, req *entity.MaterialRequirement) error {
	query := `
		UPDATE material_requirements SET reference_number = $2, status = $3, calculation_date = $4,
			planning_start_date = $5, planning_end_date = $6, consider_stock = $7, consider_min_stock = $8,
			notes = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.ReferenceNumber, req.Status, req.CalculationDate, req.PlanningStartDate,
		req.PlanningEndDate, req.ConsiderStock, req.ConsiderMinStock, nullIfEmpty(req.Notes), req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("reference_number", fmt.Sprintf("el número de referencia %s ya existe", req.ReferenceNumber))
		}
		return fmt.Errorf("update material requirement: %w", err)
	}
	return r.replaceSources(ctx, req)
}

// ReplaceCalculation reemplaza los ítems y persiste status y calculation_date.
func (r *MaterialRequirementRepo) ReplaceCalculation(ctx context.Context, req *entity.MaterialRequirement) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&MaterialRequirementRepo{q: q}).replaceCalculation(ctx, req)
	})
}

func (r *MaterialRequirementRepo) replaceCalculation(ctx context.Context, req *entity.MaterialRequirement) error {
	_, err := r.q.Exec(ctx,
		`UPDATE material_requirements SET status = $2, calculation_date = $3, updated_at = $4 WHERE id = $1`,
		req.ID, req.Status, req.CalculationDate, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update calculation header: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM material_requirement_items WHERE requirement_id = $1`, req.ID); err != nil {
		return fmt.Errorf("delete requirement items: %w", err)
	}
	if len(req.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range req.Items {
		batch.Queue(`
			INSERT INTO material_requirement_items (id, requirement_id, product_id, product_code, product_name,
				product_type, required_quantity, available_quantity, quantity_to_procure, requirement_date,
				planned_order_date, lead_time_days, is_available, unit, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			it.ID, req.ID, it.ProductID, it.ProductCode, it.ProductName, it.ProductType,
			it.RequiredQuantity, it.AvailableQuantity, it.QuantityToProcure, it.RequirementDate,
			it.PlannedOrderDate, it.LeadTimeDays, it.IsAvailable, it.Unit, nullIfEmpty(it.Notes),
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert requirement items: %w", err)
	}
	return nil
}

// List lista cabeceras con sus órdenes origen, sin ítems.
func (r *MaterialRequirementRepo) List(ctx context.Context, filter repository.MaterialRequirementFilter) ([]*entity.MaterialRequirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM material_requirements`
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` WHERE status = $1`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY creation_date DESC, reference_number LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list material requirements: %w", err)
	}
	var list []*entity.MaterialRequirement
	for rows.Next() {
		m, err := scanRequirement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan material requirement: %w", err)
		}
		list = append(list, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range list {
		if err := r.loadSources(ctx, m); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountBySourceOrder cuenta requerimientos que usan la orden como origen.
func (r *MaterialRequirementRepo) CountBySourceOrder(ctx context.Context, orderID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_requirement_orders WHERE order_id = $1`, orderID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count requirements by order: %w", err)
	}
	return n, nil
}

// Delete elimina el requerimiento; órdenes origen e ítems se borran en cascada.
func (r *MaterialRequirementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM material_requirements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete material requirement: %w", err)
	}
	return nil
}

func (r *MaterialRequirementRepo) load(ctx context.Context, query, id string) (*entity.MaterialRequirement, error) {
	m, err := scanRequirement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material requirement: %w", err)
	}
	if err := r.loadSources(ctx, m); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MaterialRequirementRepo) replaceSources(ctx context.Context, req *entity.MaterialRequirement) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM material_requirement_orders WHERE requirement_id = $1`, req.ID); err != nil {
		return fmt.Errorf("delete requirement sources: %w", err)
	}
	if len(req.SourceOrderIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, orderID := range req.SourceOrderIDs {
		batch.Queue(
			`INSERT INTO material_requirement_orders (requirement_id, order_id, position) VALUES ($1, $2, $3)`,
			req.ID, orderID, i,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: orden de origen inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert requirement sources: %w", err)
	}
	return nil
}

func (r *MaterialRequirementRepo) loadSources(ctx context.Context, m *entity.MaterialRequirement) error {
	rows, err := r.q.Query(ctx,
		`SELECT order_id FROM material_requirement_orders WHERE requirement_id = $1 ORDER BY position`, m.ID)
	if err != nil {
		return fmt.Errorf("list requirement sources: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scan requirement source: %w", err)
	}
	m.SourceOrderIDs = ids
	return nil
}

func (r *MaterialRequirementRepo) loadItems(ctx context.Context, m *entity.MaterialRequirement) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, requirement_id, product_id, product_code, product_name, product_type, required_quantity,
			available_quantity, quantity_to_procure, requirement_date, planned_order_date, lead_time_days,
			is_available, unit, notes
		FROM material_requirement_items WHERE requirement_id = $1 ORDER BY product_code, id`, m.ID)
	if err != nil {
		return fmt.Errorf("list requirement items: %w", err)
	}
	defer rows.Close()
	m.Items = nil
	for rows.Next() {
		var it entity.MaterialRequirementItem
		var notes *string
		if err := rows.Scan(
			&it.ID, &it.RequirementID, &it.ProductID, &it.ProductCode, &it.ProductName, &it.ProductType,
			&it.RequiredQuantity, &it.AvailableQuantity, &it.QuantityToProcure, &it.RequirementDate,
			&it.PlannedOrderDate, &it.LeadTimeDays, &it.IsAvailable, &it.Unit, &notes,
		); err != nil {
			return fmt.Errorf("scan requirement item: %w", err)
		}
		it.Notes = derefStr(notes)
		m.Items = append(m.Items, it)
	}
	return rows.Err()
}

func scanRequirement(row pgx.Row) (*entity.MaterialRequirement, error) {
	var m entity.MaterialRequirement
	var notes, createdBy *string
	err := row.Scan(
		&m.ID, &m.ReferenceNumber, &m.Status, &m.CreationDate, &m.CalculationDate, &m.PlanningStartDate,
		&m.PlanningEndDate, &m.ConsiderStock, &m.ConsiderMinStock, &notes, &createdBy, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Notes = derefStr(notes)
	m.CreatedBy = derefStr(createdBy)
	return &m, nil
}
