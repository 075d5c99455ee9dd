package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.MaterialRequirementRepository = (*MaterialRequirementRepo)(nil)

// MaterialRequirementRepo implementación en memoria de MaterialRequirementRepository.
type MaterialRequirementRepo struct {
	guard
}

// NewMaterialRequirementRepository construye el repositorio sobre el store.
func NewMaterialRequirementRepository(s *Store) *MaterialRequirementRepo {
	return &MaterialRequirementRepo{guard{s: s}}
}

func (r *MaterialRequirementRepo) Create(_ context.Context, req *entity.MaterialRequirement) error {
	defer r.write()()
	if err := r.checkReference(req); err != nil {
		return err
	}
	if err := r.checkSources(req.SourceOrderIDs); err != nil {
		return err
	}
	r.s.requirements[req.ID] = cloneRequirement(req)
	return nil
}

func (r *MaterialRequirementRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequirement, error) {
	defer r.read()()
	m, ok := r.s.requirements[id]
	if !ok {
		return nil, nil
	}
	return cloneRequirement(m), nil
}

// GetForUpdate el aislamiento lo da el lock del store que mantiene el TxRunner.
func (r *MaterialRequirementRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequirement, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRequirementRepo) GetByReference(_ context.Context, reference string) (*entity.MaterialRequirement, error) {
	defer r.read()()
	for _, m := range r.s.requirements {
		if m.ReferenceNumber == reference {
			c := cloneRequirement(m)
			c.Items = nil
			return c, nil
		}
	}
	return nil, nil
}

func (r *MaterialRequirementRepo) Update(_ context.Context, req *entity.MaterialRequirement) error {
	defer r.write()()
	current, ok := r.s.requirements[req.ID]
	if !ok {
		return nil
	}
	if err := r.checkReference(req); err != nil {
		return err
	}
	if err := r.checkSources(req.SourceOrderIDs); err != nil {
		return err
	}
	c := cloneRequirement(req)
	c.Items = current.Items
	r.s.requirements[req.ID] = c
	return nil
}

func (r *MaterialRequirementRepo) ReplaceCalculation(_ context.Context, req *entity.MaterialRequirement) error {
	defer r.write()()
	current, ok := r.s.requirements[req.ID]
	if !ok {
		return nil
	}
	current.Status = req.Status
	current.CalculationDate = cloneTime(req.CalculationDate)
	current.UpdatedAt = req.UpdatedAt
	current.Items = append([]entity.MaterialRequirementItem(nil), req.Items...)
	for i := range current.Items {
		current.Items[i].RequirementID = req.ID
	}
	return nil
}

func (r *MaterialRequirementRepo) List(_ context.Context, filter repository.MaterialRequirementFilter) ([]*entity.MaterialRequirement, error) {
	defer r.read()()
	var list []*entity.MaterialRequirement
	for _, m := range r.s.requirements {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		c := cloneRequirement(m)
		c.Items = nil
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreationDate.Equal(list[j].CreationDate) {
			return list[i].CreationDate.After(list[j].CreationDate)
		}
		return list[i].ReferenceNumber < list[j].ReferenceNumber
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *MaterialRequirementRepo) CountBySourceOrder(_ context.Context, orderID string) (int, error) {
	defer r.read()()
	n := 0
	for _, m := range r.s.requirements {
		for _, src := range m.SourceOrderIDs {
			if src == orderID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *MaterialRequirementRepo) Delete(_ context.Context, id string) error {
	defer r.write()()
	delete(r.s.requirements, id)
	return nil
}

func (r *MaterialRequirementRepo) checkReference(req *entity.MaterialRequirement) error {
	for _, m := range r.s.requirements {
		if m.ReferenceNumber == req.ReferenceNumber && m.ID != req.ID {
			return domain.NewValidationError("reference_number", fmt.Sprintf("el número de referencia %s ya existe", req.ReferenceNumber))
		}
	}
	return nil
}

func (r *MaterialRequirementRepo) checkSources(ids []string) error {
	for _, id := range ids {
		if _, ok := r.s.orders[id]; !ok {
			return fmt.Errorf("%w: orden de origen inexistente", domain.ErrNotFound)
		}
	}
	return nil
}
