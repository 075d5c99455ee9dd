package mrp

import "time"

// PlannedOrderDate fecha de lanzamiento del pedido: requirementDate menos el lead time en días calendario.
func PlannedOrderDate(requirementDate time.Time, leadTimeDays int) time.Time {
	return requirementDate.AddDate(0, 0, -leadTimeDays)
}
