package mrp

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// StockPolicy opciones de neteo del requerimiento.
type StockPolicy struct {
	ConsiderStock    bool
	ConsiderMinStock bool
}

// NetResult resultado del neteo de un componente.
type NetResult struct {
	Available   decimal.Decimal
	ToProcure   decimal.Decimal
	IsAvailable bool
}

// Net descuenta del requerimiento bruto el stock disponible según la política.
//   - sin stock: disponible 0, a comprar = requerido
//   - con stock: disponible = stock
//   - con stock y mínimo: disponible = max(0, stock - mínimo)
func Net(required decimal.Decimal, p *entity.Product, policy StockPolicy) NetResult {
	available := decimal.Zero
	if policy.ConsiderStock {
		available = p.QuantityInStock
		if policy.ConsiderMinStock {
			available = decimal.Max(decimal.Zero, p.QuantityInStock.Sub(p.MinimumStock))
		}
	}
	toProcure := decimal.Max(decimal.Zero, required.Sub(available))
	return NetResult{
		Available:   available,
		ToProcure:   toProcure,
		IsAvailable: toProcure.IsZero(),
	}
}
