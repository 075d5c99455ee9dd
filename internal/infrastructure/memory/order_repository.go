package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	guard
}

// NewOrderRepository construye el repositorio sobre el store.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{guard{s: s}}
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	defer r.write()()
	for _, o := range r.s.orders {
		if o.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	assignOrderItemIDs(order)
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.read()()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) GetByNumber(_ context.Context, orderNumber string) (*entity.Order, error) {
	defer r.read()()
	for _, o := range r.s.orders {
		if o.OrderNumber == orderNumber {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (r *OrderRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Order, error) {
	defer r.read()()
	var list []*entity.Order
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if o, ok := r.s.orders[id]; ok && !seen[id] {
			seen[id] = true
			list = append(list, cloneOrder(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderNumber < list[j].OrderNumber })
	return list, nil
}

func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	defer r.write()()
	for _, o := range r.s.orders {
		if o.OrderNumber == order.OrderNumber && o.ID != order.ID {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.orders[order.ID]; !ok {
		return nil
	}
	assignOrderItemIDs(order)
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, order *entity.Order) error {
	defer r.write()()
	o, ok := r.s.orders[order.ID]
	if !ok {
		return nil
	}
	o.Status = order.Status
	o.ActualCompletionDate = cloneTime(order.ActualCompletionDate)
	o.UpdatedAt = order.UpdatedAt
	return nil
}

func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	defer r.read()()
	var list []*entity.Order
	for _, o := range r.s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && o.Type != *filter.Type {
			continue
		}
		if filter.From != nil && o.OrderDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.OrderDate.After(*filter.To) {
			continue
		}
		list = append(list, cloneOrder(o))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].OrderDate.Equal(list[j].OrderDate) {
			return list[i].OrderDate.After(list[j].OrderDate)
		}
		return list[i].OrderNumber < list[j].OrderNumber
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

// Delete replica la clave foránea RESTRICT desde material_requirement_orders.
func (r *OrderRepo) Delete(_ context.Context, id string) error {
	defer r.write()()
	for _, m := range r.s.requirements {
		for _, src := range m.SourceOrderIDs {
			if src == id {
				return domain.NewConflictError("la orden es origen de un requerimiento de materiales")
			}
		}
	}
	delete(r.s.orders, id)
	return nil
}

func assignOrderItemIDs(order *entity.Order) {
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
}
