package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de BOMRepository (usable con pool o tx).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomColumns = `id, name, description, product_id, version, is_active, created_at, updated_at`

// Create persiste cabecera y líneas en una sola transacción.
func (r *BOMRepo) Create(ctx context.Context, bom *entity.BillOfMaterials) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&BOMRepo{q: q}).create(ctx, bom)
	})
}

func (r *BOMRepo) create(ctx context.Context, bom *entity.BillOfMaterials) error {
	query := `
		INSERT INTO boms (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		bom.ID, bom.Name, nullIfEmpty(bom.Description), bom.ProductID, bom.Version, bom.IsActive,
		bom.CreatedAt, bom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bom: %w", err)
	}
	return r.insertItems(ctx, bom)
}

// GetByID obtiene la BOM con sus líneas.
func (r *BOMRepo) GetByID(ctx context.Context, id string) (*entity.BillOfMaterials, error) {
	b, err := scanBOM(r.q.QueryRow(ctx, `SELECT `+bomColumns+` FROM boms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.BillOfMaterials{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// Update reemplaza cabecera y líneas en una sola transacción.
func (r *BOMRepo) Update(ctx context.Context, bom *entity.BillOfMaterials) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&BOMRepo{q: q}).update(ctx, bom)
	})
}

func (r *BOMRepo) update(ctx context.Context, bom *entity.BillOfMaterials) error {
	query := `
		UPDATE boms SET name = $2, description = $3, product_id = $4, version = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		bom.ID, bom.Name, nullIfEmpty(bom.Description), bom.ProductID, bom.Version, bom.IsActive, bom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bom: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM bom_items WHERE bom_id = $1`, bom.ID); err != nil {
		return fmt.Errorf("delete bom items: %w", err)
	}
	return r.insertItems(ctx, bom)
}

// List lista BOMs (con líneas) aplicando filtros y paginación.
func (r *BOMRepo) List(ctx context.Context, filter repository.BOMFilter) ([]*entity.BillOfMaterials, error) {
	var where []string
	var args []any
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	query := `SELECT ` + bomColumns + ` FROM boms`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY name, version LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListActive devuelve todas las BOMs activas con sus líneas.
func (r *BOMRepo) ListActive(ctx context.Context) ([]*entity.BillOfMaterials, error) {
	list, err := r.query(ctx, `SELECT `+bomColumns+` FROM boms WHERE is_active ORDER BY product_id, created_at`)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CountByComponent cuenta las líneas que usan el producto como componente.
func (r *BOMRepo) CountByComponent(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bom_items WHERE component_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bom items by component: %w", err)
	}
	return n, nil
}

// Delete elimina la BOM; las líneas se borran en cascada.
func (r *BOMRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM boms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete bom: %w", err)
	}
	return nil
}

func (r *BOMRepo) insertItems(ctx context.Context, bom *entity.BillOfMaterials) error {
	if len(bom.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range bom.Items {
		it := &bom.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.BOMID = bom.ID
		batch.Queue(`
			INSERT INTO bom_items (id, bom_id, component_id, quantity, unit, position, notes, is_optional)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, it.BOMID, it.ComponentID, it.Quantity, it.Unit, it.Position, nullIfEmpty(it.Notes), it.IsOptional,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert bom items: %w", err)
	}
	return nil
}

func (r *BOMRepo) query(ctx context.Context, query string, args ...any) ([]*entity.BillOfMaterials, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterials
	for rows.Next() {
		b, err := scanBOM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// attachItems carga las líneas de todas las BOMs en una sola consulta.
func (r *BOMRepo) attachItems(ctx context.Context, boms []*entity.BillOfMaterials) error {
	if len(boms) == 0 {
		return nil
	}
	ids := make([]string, len(boms))
	byID := make(map[string]*entity.BillOfMaterials, len(boms))
	for i, b := range boms {
		ids[i] = b.ID
		byID[b.ID] = b
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, bom_id, component_id, quantity, unit, position, notes, is_optional
		FROM bom_items WHERE bom_id = ANY($1::uuid[]) ORDER BY bom_id, position, id`, ids)
	if err != nil {
		return fmt.Errorf("list bom items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.BOMItem
		var notes *string
		if err := rows.Scan(&it.ID, &it.BOMID, &it.ComponentID, &it.Quantity, &it.Unit, &it.Position, &notes, &it.IsOptional); err != nil {
			return fmt.Errorf("scan bom item: %w", err)
		}
		it.Notes = derefStr(notes)
		if b := byID[it.BOMID]; b != nil {
			b.Items = append(b.Items, it)
		}
	}
	return rows.Err()
}

func scanBOM(row pgx.Row) (*entity.BillOfMaterials, error) {
	var b entity.BillOfMaterials
	var description *string
	if err := row.Scan(&b.ID, &b.Name, &description, &b.ProductID, &b.Version, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Description = derefStr(description)
	return &b, nil
}
