package planning

import (
	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

func toRequirementResponse(r *entity.MaterialRequirement) *dto.MaterialRequirementResponse {
	items := make([]dto.MaterialRequirementItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.MaterialRequirementItemResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			ProductCode:       it.ProductCode,
			ProductName:       it.ProductName,
			ProductType:       string(it.ProductType),
			RequiredQuantity:  it.RequiredQuantity,
			AvailableQuantity: it.AvailableQuantity,
			QuantityToProcure: it.QuantityToProcure,
			RequirementDate:   it.RequirementDate,
			PlannedOrderDate:  it.PlannedOrderDate,
			LeadTimeDays:      it.LeadTimeDays,
			IsAvailable:       it.IsAvailable,
			Unit:              it.Unit,
			Notes:             it.Notes,
		})
	}
	sources := make([]string, len(r.SourceOrderIDs))
	copy(sources, r.SourceOrderIDs)
	return &dto.MaterialRequirementResponse{
		ID:                r.ID,
		ReferenceNumber:   r.ReferenceNumber,
		Status:            string(r.Status),
		CreationDate:      r.CreationDate,
		CalculationDate:   r.CalculationDate,
		PlanningStartDate: r.PlanningStartDate,
		PlanningEndDate:   r.PlanningEndDate,
		ConsiderStock:     r.ConsiderStock,
		ConsiderMinStock:  r.ConsiderMinStock,
		Notes:             r.Notes,
		CreatedBy:         r.CreatedBy,
		SourceOrders:      sources,
		Items:             items,
	}
}
