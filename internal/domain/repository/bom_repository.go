package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// BOMFilter filtros opcionales para el listado de BOMs.
type BOMFilter struct {
	ProductID string
	IsActive  *bool
	Limit     int
	Offset    int
}

// BOMRepository puerto de persistencia para BillOfMaterials y sus líneas.
type BOMRepository interface {
	Create(ctx context.Context, bom *entity.BillOfMaterials) error
	GetByID(ctx context.Context, id string) (*entity.BillOfMaterials, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, bom *entity.BillOfMaterials) error
	List(ctx context.Context, filter BOMFilter) ([]*entity.BillOfMaterials, error)
	// ListActive devuelve todas las BOMs activas con sus líneas.
	ListActive(ctx context.Context) ([]*entity.BillOfMaterials, error)
	// CountByComponent cuenta las líneas que referencian al producto como componente.
	CountByComponent(ctx context.Context, productID string) (int, error)
	Delete(ctx context.Context, id string) error
}
