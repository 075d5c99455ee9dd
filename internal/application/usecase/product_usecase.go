package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo de productos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	bomRepo repository.BOMRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, bomRepo repository.BOMRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, bomRepo: bomRepo}
}

// Create crea un nuevo producto. El código debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "es requerido")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, code)
	}
	unit := in.Unit
	if unit == "" {
		unit = entity.DefaultUnit
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Code:            code,
		Name:            in.Name,
		Description:     in.Description,
		Type:            entity.ProductType(in.ProductType),
		Unit:            unit,
		Price:           in.Price,
		QuantityInStock: in.QuantityInStock,
		MinimumStock:    in.MinimumStock,
		LeadTimeDays:    in.LeadTimeDays,
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos enviados de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Code != nil && *in.Code != product.Code {
		code := strings.TrimSpace(*in.Code)
		other, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, code)
		}
		product.Code = code
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ProductType != nil {
		product.Type = entity.ProductType(*in.ProductType)
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		product.Price = in.Price
	}
	if in.QuantityInStock != nil {
		product.QuantityInStock = *in.QuantityInStock
	}
	if in.MinimumStock != nil {
		product.MinimumStock = *in.MinimumStock
	}
	if in.LeadTimeDays != nil {
		product.LeadTimeDays = *in.LeadTimeDays
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		Search: strings.TrimSpace(in.Search),
		Active: in.Active,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.ProductType != "" {
		t := entity.ProductType(strings.ToUpper(in.ProductType))
		if !t.Valid() {
			return nil, domain.NewValidationError("product_type", "tipo de producto desconocido")
		}
		filter.Type = &t
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un producto. No se permite si alguna BOM lo usa como componente.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	n, err := uc.bomRepo.CountByComponent(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewConflictError("el producto %s se usa como componente en %d líneas de BOM", product.Code, n)
	}
	return uc.repo.Delete(ctx, id)
}

func validateProduct(p *entity.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "es requerido")
	}
	if !p.Type.Valid() {
		return domain.NewValidationError("product_type", "debe ser FINAL, COMPONENT, MATERIAL o SERVICE")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	if p.QuantityInStock.IsNegative() {
		return domain.NewValidationError("quantity_in_stock", "no puede ser negativo")
	}
	if p.MinimumStock.IsNegative() {
		return domain.NewValidationError("minimum_stock", "no puede ser negativo")
	}
	if p.LeadTimeDays < 0 {
		return domain.NewValidationError("lead_time_days", "no puede ser negativo")
	}
	return nil
}

func positive(q decimal.Decimal) bool {
	return q.GreaterThan(decimal.Zero)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		ProductType:     string(p.Type),
		Unit:            p.Unit,
		Price:           p.Price,
		QuantityInStock: p.QuantityInStock,
		MinimumStock:    p.MinimumStock,
		LeadTimeDays:    p.LeadTimeDays,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
