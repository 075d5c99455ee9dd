package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// MaterialRequirementFilter filtros del listado de requerimientos.
type MaterialRequirementFilter struct {
	Status *entity.RequirementStatus
	Limit  int
	Offset int
}

// MaterialRequirementRepository puerto de persistencia para MaterialRequirement.
type MaterialRequirementRepository interface {
	Create(ctx context.Context, req *entity.MaterialRequirement) error
	// GetByID carga cabecera, órdenes origen e ítems.
	GetByID(ctx context.Context, id string) (*entity.MaterialRequirement, error)
	// GetForUpdate igual que GetByID pero bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequirement, error)
	GetByReference(ctx context.Context, reference string) (*entity.MaterialRequirement, error)
	// Update persiste cabecera y órdenes origen; no toca los ítems.
	Update(ctx context.Context, req *entity.MaterialRequirement) error
	// ReplaceCalculation reemplaza los ítems y persiste status y calculation_date.
	ReplaceCalculation(ctx context.Context, req *entity.MaterialRequirement) error
	// List no carga los ítems.
	List(ctx context.Context, filter MaterialRequirementFilter) ([]*entity.MaterialRequirement, error)
	// CountBySourceOrder cuenta requerimientos que usan la orden como origen.
	CountBySourceOrder(ctx context.Context, orderID string) (int, error)
	Delete(ctx context.Context, id string) error
}
