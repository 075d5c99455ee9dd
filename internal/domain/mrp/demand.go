package mrp

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Demand requerimiento bruto de un componente base.
type Demand struct {
	ProductID       string
	Quantity        decimal.Decimal
	RequirementDate time.Time // la más temprana entre las órdenes que aportan
}

// AggregateDemand explota cada línea de las órdenes y consolida por componente.
// Solo se aceptan órdenes CONFIRMED. Una orden sin required_date usa fallback
// (planning_end_date del requerimiento); si ambos faltan no hay fecha que derivar.
func AggregateDemand(exploder *Exploder, orders []*entity.Order, fallback *time.Time) (map[string]*Demand, error) {
	sorted := make([]*entity.Order, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OrderNumber < sorted[j].OrderNumber })

	gross := make(map[string]*Demand)
	for _, o := range sorted {
		if o.Status != entity.OrderStatusConfirmed {
			return nil, &domain.IneligibleSourceOrderError{OrderNumber: o.OrderNumber, Status: string(o.Status)}
		}
		date, err := requirementDate(o, fallback)
		if err != nil {
			return nil, err
		}
		for _, line := range o.Items {
			exploded, err := exploder.Explode(line.ProductID, line.Quantity)
			if err != nil {
				return nil, err
			}
			for componentID, qty := range exploded {
				d, ok := gross[componentID]
				if !ok {
					gross[componentID] = &Demand{ProductID: componentID, Quantity: qty, RequirementDate: date}
					continue
				}
				d.Quantity = d.Quantity.Add(qty)
				if date.Before(d.RequirementDate) {
					d.RequirementDate = date
				}
			}
		}
	}
	return gross, nil
}

func requirementDate(o *entity.Order, fallback *time.Time) (time.Time, error) {
	if o.RequiredDate != nil {
		return *o.RequiredDate, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return time.Time{}, domain.NewValidationError("planning_end_date",
		fmt.Sprintf("la orden %s no tiene fecha requerida y el requerimiento no define fecha fin de planificación", o.OrderNumber))
}
