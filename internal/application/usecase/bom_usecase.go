package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// BOMUseCase casos de uso de listas de materiales.
type BOMUseCase struct {
	repo        repository.BOMRepository
	productRepo repository.ProductRepository
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(repo repository.BOMRepository, productRepo repository.ProductRepository) *BOMUseCase {
	return &BOMUseCase{repo: repo, productRepo: productRepo}
}

// Create crea una BOM para un producto FINAL o COMPONENT.
// Los ciclos entre BOMs distintas no se validan aquí; los detecta el cálculo MRP.
func (uc *BOMUseCase) Create(ctx context.Context, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewValidationError("product_id", "el producto no existe")
	}
	if !product.Type.Buildable() {
		return nil, domain.NewValidationError("product_id", fmt.Sprintf("un producto %s no puede tener BOM", product.Type))
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	version := strings.TrimSpace(in.Version)
	if version == "" {
		version = entity.DefaultBOMVersion
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	bom := &entity.BillOfMaterials{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		ProductID:   product.ID,
		Version:     version,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	components, err := uc.buildItems(ctx, bom, in.Items)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom, components), nil
}

// GetByID obtiene una BOM con sus líneas.
func (uc *BOMUseCase) GetByID(ctx context.Context, id string) (*dto.BOMResponse, error) {
	bom, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	components, err := uc.components(ctx, bom)
	if err != nil {
		return nil, err
	}
	return toBOMResponse(bom, components), nil
}

// Update actualiza cabecera y, si vienen, reemplaza las líneas.
func (uc *BOMUseCase) Update(ctx context.Context, id string, in dto.UpdateBOMRequest) (*dto.BOMResponse, error) {
	bom, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "es requerido")
		}
		bom.Name = *in.Name
	}
	if in.Description != nil {
		bom.Description = *in.Description
	}
	if in.Version != nil {
		bom.Version = strings.TrimSpace(*in.Version)
		if bom.Version == "" {
			bom.Version = entity.DefaultBOMVersion
		}
	}
	if in.IsActive != nil {
		bom.IsActive = *in.IsActive
	}
	var components map[string]*entity.Product
	if in.Items != nil {
		components, err = uc.buildItems(ctx, bom, *in.Items)
	} else {
		components, err = uc.components(ctx, bom)
	}
	if err != nil {
		return nil, err
	}
	bom.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom, components), nil
}

// List lista BOMs filtrando por producto y estado.
func (uc *BOMUseCase) List(ctx context.Context, in dto.BOMFilterRequest) (*dto.BOMListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.BOMFilter{
		ProductID: in.ProductID,
		IsActive:  in.IsActive,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.BOMResponse, 0, len(list))
	for _, b := range list {
		components, err := uc.components(ctx, b)
		if err != nil {
			return nil, err
		}
		items = append(items, *toBOMResponse(b, components))
	}
	return &dto.BOMListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina una BOM y sus líneas.
func (uc *BOMUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *BOMUseCase) get(ctx context.Context, id string) (*entity.BillOfMaterials, error) {
	bom, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, fmt.Errorf("%w: BOM %s", domain.ErrNotFound, id)
	}
	return bom, nil
}

// buildItems valida las líneas de entrada y las asigna a la BOM. La unidad se copia del componente.
func (uc *BOMUseCase) buildItems(ctx context.Context, bom *entity.BillOfMaterials, in []dto.BOMItemRequest) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.ComponentID)
	}
	components, err := uc.productsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]entity.BOMItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		if it.ComponentID == bom.ProductID {
			return nil, domain.NewValidationError(field+".component_id", "un producto no puede ser componente de sí mismo")
		}
		component, ok := components[it.ComponentID]
		if !ok {
			return nil, domain.NewValidationError(field+".component_id", "el componente no existe")
		}
		if !positive(it.Quantity) {
			return nil, domain.NewValidationError(field+".quantity", "debe ser mayor que 0")
		}
		position := it.Position
		if position <= 0 {
			position = i + 1
		}
		items = append(items, entity.BOMItem{
			ID:          uuid.New().String(),
			BOMID:       bom.ID,
			ComponentID: component.ID,
			Quantity:    it.Quantity,
			Unit:        component.Unit,
			Position:    position,
			Notes:       it.Notes,
			IsOptional:  it.IsOptional,
		})
	}
	bom.Items = items
	return components, nil
}

func (uc *BOMUseCase) components(ctx context.Context, bom *entity.BillOfMaterials) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(bom.Items))
	for _, it := range bom.Items {
		ids = append(ids, it.ComponentID)
	}
	return uc.productsByID(ctx, ids)
}

func (uc *BOMUseCase) productsByID(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func toBOMResponse(b *entity.BillOfMaterials, components map[string]*entity.Product) *dto.BOMResponse {
	items := make([]dto.BOMItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		r := dto.BOMItemResponse{
			ID:          it.ID,
			ComponentID: it.ComponentID,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Position:    it.Position,
			Notes:       it.Notes,
			IsOptional:  it.IsOptional,
		}
		if c, ok := components[it.ComponentID]; ok {
			r.ComponentCode = c.Code
			r.ComponentName = c.Name
		}
		items = append(items, r)
	}
	return &dto.BOMResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		ProductID:   b.ProductID,
		Version:     b.Version,
		IsActive:    b.IsActive,
		Items:       items,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
