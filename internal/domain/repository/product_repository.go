package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ProductFilter filtros opcionales para el listado de productos.
type ProductFilter struct {
	Search string              // coincide por código o nombre (contiene, sin mayúsculas)
	Type   *entity.ProductType // nil = todos
	Active *bool
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListAll devuelve el catálogo completo (snapshot para el cálculo MRP).
	ListAll(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
