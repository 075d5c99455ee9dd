package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_number, order_type, status, customer_name, customer_reference, order_date,
	required_date, estimated_completion_date, actual_completion_date, notes, created_by, created_at, updated_at`

// Create persiste cabecera y líneas en una sola transacción.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&OrderRepo{q: q}).create(ctx, order)
	})
}

func (r *OrderRepo) create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNumber, order.Type, order.Status,
		nullIfEmpty(order.CustomerName), nullIfEmpty(order.CustomerReference), order.OrderDate,
		order.RequiredDate, order.EstimatedCompletionDate, order.ActualCompletionDate,
		nullIfEmpty(order.Notes), nullIfEmpty(order.CreatedBy), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, order)
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByNumber obtiene una orden por su número.
func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
}

// GetByIDs devuelve las órdenes encontradas con sus líneas, ordenadas por número.
func (r *OrderRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ANY($1::uuid[]) ORDER BY order_number`, ids)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update reemplaza cabecera y líneas en una sola transacción.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	return atomic(ctx, r.q, func(q Querier) error {
		return (&OrderRepo{q: q}).update(ctx, order)
	})
}

func (r *OrderRepo) update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET order_number = $2, order_type = $3, status = $4, customer_name = $5,
			customer_reference = $6, order_date = $7, required_date = $8, estimated_completion_date = $9,
			actual_completion_date = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNumber, order.Type, order.Status,
		nullIfEmpty(order.CustomerName), nullIfEmpty(order.CustomerReference), order.OrderDate,
		order.RequiredDate, order.EstimatedCompletionDate, order.ActualCompletionDate,
		nullIfEmpty(order.Notes), order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update order: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(ctx, order)
}

// UpdateStatus persiste solo el estado y la fecha real de finalización.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, actual_completion_date = $3, updated_at = $4 WHERE id = $1`,
		order.ID, order.Status, order.ActualCompletionDate, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// List lista órdenes (con líneas) aplicando filtros y paginación.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var where []string
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = append(where, fmt.Sprintf("order_type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("order_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("order_date <= $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY order_date DESC, order_number LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina la orden. Falla con conflicto si un requerimiento la usa como origen.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewConflictError("la orden es origen de un requerimiento de materiales")
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) insertItems(ctx context.Context, order *entity.Order) error {
	if len(order.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range order.Items {
		it := &order.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = order.ID
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, position, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Position, nullIfEmpty(it.Notes),
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r *OrderRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// attachItems carga las líneas de todas las órdenes en una sola consulta.
func (r *OrderRepo) attachItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, position, notes
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position, id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		var notes *string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Position, &notes); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		it.Notes = derefStr(notes)
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var customerName, customerRef, notes, createdBy *string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Type, &o.Status, &customerName, &customerRef, &o.OrderDate,
		&o.RequiredDate, &o.EstimatedCompletionDate, &o.ActualCompletionDate, &notes, &createdBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CustomerName = derefStr(customerName)
	o.CustomerReference = derefStr(customerRef)
	o.Notes = derefStr(notes)
	o.CreatedBy = derefStr(createdBy)
	return &o, nil
}
