package planning

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La transacción debe ofrecer una vista consistente del catálogo durante todo el cálculo.
type TxRunner interface {
	RunPlanning(ctx context.Context, fn func(
		mrRepo repository.MaterialRequirementRepository,
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BOMRepository,
	) error) error
}

// Locker serializa operaciones sobre un mismo requerimiento (en proceso o distribuido).
// Obtain devuelve domain.ErrLocked si no consigue el lock antes del plazo configurado.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// SpreadsheetExporter genera la hoja de compras de un requerimiento calculado.
type SpreadsheetExporter interface {
	ExportRequirement(ctx context.Context, req *entity.MaterialRequirement, orders []*entity.Order) ([]byte, error)
}

// ReportGenerator genera el informe imprimible de un requerimiento calculado.
type ReportGenerator interface {
	GenerateRequirementPDF(ctx context.Context, req *entity.MaterialRequirement, orders []*entity.Order) ([]byte, error)
}
