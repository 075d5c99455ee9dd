package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	guard
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{guard{s: s}}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.write()()
	for _, p := range r.s.products {
		if p.Code == product.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.read()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.read()()
	for _, p := range r.s.products {
		if p.Code == code {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	defer r.read()()
	var list []*entity.Product
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !seen[id] {
			seen[id] = true
			list = append(list, cloneProduct(p))
		}
	}
	sortedProducts(list)
	return list, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.write()()
	for _, p := range r.s.products {
		if p.Code == product.Code && p.ID != product.ID {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.products[product.ID]; !ok {
		return nil
	}
	r.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	defer r.read()()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var list []*entity.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Code), search) && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filter.Type != nil && p.Type != *filter.Type {
			continue
		}
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		list = append(list, cloneProduct(p))
	}
	sortedProducts(list)
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	defer r.read()()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		list = append(list, cloneProduct(p))
	}
	sortedProducts(list)
	return list, nil
}

// Delete replica las claves foráneas RESTRICT del esquema relacional.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.write()()
	if r.referenced(id) {
		return domain.NewConflictError("el producto está referenciado por BOMs, órdenes o requerimientos")
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) referenced(id string) bool {
	for _, b := range r.s.boms {
		if b.ProductID == id {
			return true
		}
		for _, it := range b.Items {
			if it.ComponentID == id {
				return true
			}
		}
	}
	for _, o := range r.s.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	for _, m := range r.s.requirements {
		for _, it := range m.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	return false
}
