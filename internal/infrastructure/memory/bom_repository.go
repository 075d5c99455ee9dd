package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación en memoria de BOMRepository.
type BOMRepo struct {
	guard
}

// NewBOMRepository construye el repositorio sobre el store.
func NewBOMRepository(s *Store) *BOMRepo {
	return &BOMRepo{guard{s: s}}
}

func (r *BOMRepo) Create(_ context.Context, bom *entity.BillOfMaterials) error {
	defer r.write()()
	assignBOMItemIDs(bom)
	r.s.boms[bom.ID] = cloneBOM(bom)
	return nil
}

func (r *BOMRepo) GetByID(_ context.Context, id string) (*entity.BillOfMaterials, error) {
	defer r.read()()
	b, ok := r.s.boms[id]
	if !ok {
		return nil, nil
	}
	return cloneBOM(b), nil
}

func (r *BOMRepo) Update(_ context.Context, bom *entity.BillOfMaterials) error {
	defer r.write()()
	if _, ok := r.s.boms[bom.ID]; !ok {
		return nil
	}
	assignBOMItemIDs(bom)
	r.s.boms[bom.ID] = cloneBOM(bom)
	return nil
}

func (r *BOMRepo) List(_ context.Context, filter repository.BOMFilter) ([]*entity.BillOfMaterials, error) {
	defer r.read()()
	var list []*entity.BillOfMaterials
	for _, b := range r.s.boms {
		if filter.ProductID != "" && b.ProductID != filter.ProductID {
			continue
		}
		if filter.IsActive != nil && b.IsActive != *filter.IsActive {
			continue
		}
		list = append(list, cloneBOM(b))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Version < list[j].Version
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *BOMRepo) ListActive(_ context.Context) ([]*entity.BillOfMaterials, error) {
	defer r.read()()
	var list []*entity.BillOfMaterials
	for _, b := range r.s.boms {
		if b.IsActive {
			list = append(list, cloneBOM(b))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *BOMRepo) CountByComponent(_ context.Context, productID string) (int, error) {
	defer r.read()()
	n := 0
	for _, b := range r.s.boms {
		for _, it := range b.Items {
			if it.ComponentID == productID {
				n++
			}
		}
	}
	return n, nil
}

func (r *BOMRepo) Delete(_ context.Context, id string) error {
	defer r.write()()
	delete(r.s.boms, id)
	return nil
}

func assignBOMItemIDs(bom *entity.BillOfMaterials) {
	for i := range bom.Items {
		if bom.Items[i].ID == "" {
			bom.Items[i].ID = uuid.New().String()
		}
		bom.Items[i].BOMID = bom.ID
	}
}
