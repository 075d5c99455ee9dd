package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// OrderFilter filtros opcionales para el listado de órdenes. From/To aplican sobre OrderDate.
type OrderFilter struct {
	Status *entity.OrderStatus
	Type   *entity.OrderType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// OrderRepository puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	// GetByIDs devuelve las órdenes encontradas (con líneas); las inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
