package mrp

import (
	"fmt"
	"sort"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Planner combina explosión, agregación, neteo y fechas para un MaterialRequirement.
type Planner struct {
	maxDepth int
}

// NewPlanner construye el planificador. maxDepth <= 0 usa DefaultMaxDepth.
func NewPlanner(maxDepth int) *Planner {
	return &Planner{maxDepth: maxDepth}
}

// Plan calcula los ítems del requerimiento a partir de sus órdenes origen.
// El resultado se ordena por código de producto; no asigna IDs ni modifica req.
func (p *Planner) Plan(catalog *Catalog, req *entity.MaterialRequirement, orders []*entity.Order) ([]entity.MaterialRequirementItem, error) {
	exploder := NewExploder(catalog, p.maxDepth)
	gross, err := AggregateDemand(exploder, orders, req.PlanningEndDate)
	if err != nil {
		return nil, err
	}

	policy := StockPolicy{ConsiderStock: req.ConsiderStock, ConsiderMinStock: req.ConsiderStock && req.ConsiderMinStock}
	items := make([]entity.MaterialRequirementItem, 0, len(gross))
	for productID, d := range gross {
		product, ok := catalog.Product(productID)
		if !ok {
			return nil, fmt.Errorf("%w: producto %s no existe en el catálogo", domain.ErrNotFound, productID)
		}
		net := Net(d.Quantity, product, policy)
		items = append(items, entity.MaterialRequirementItem{
			ProductID:         product.ID,
			ProductCode:       product.Code,
			ProductName:       product.Name,
			ProductType:       product.Type,
			RequiredQuantity:  d.Quantity,
			AvailableQuantity: net.Available,
			QuantityToProcure: net.ToProcure,
			RequirementDate:   d.RequirementDate,
			PlannedOrderDate:  PlannedOrderDate(d.RequirementDate, product.LeadTimeDays),
			LeadTimeDays:      product.LeadTimeDays,
			IsAvailable:       net.IsAvailable,
			Unit:              product.Unit,
			Notes:             leadTimeNote(product.LeadTimeDays),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductCode != items[j].ProductCode {
			return items[i].ProductCode < items[j].ProductCode
		}
		return items[i].ProductID < items[j].ProductID
	})
	return items, nil
}

func leadTimeNote(days int) string {
	if days <= 0 {
		return ""
	}
	return fmt.Sprintf("Tiempo de entrega: %d días", days)
}
