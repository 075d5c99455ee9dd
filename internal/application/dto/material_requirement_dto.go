package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequirementRequest entrada para crear un requerimiento de materiales.
// ConsiderStock por defecto true; ConsiderMinStock por defecto false.
type CreateMaterialRequirementRequest struct {
	ReferenceNumber   string     `json:"reference_number" validate:"max=50"`
	PlanningStartDate *time.Time `json:"planning_start_date"`
	PlanningEndDate   *time.Time `json:"planning_end_date"`
	ConsiderStock     *bool      `json:"consider_stock"`
	ConsiderMinStock  *bool      `json:"consider_min_stock"`
	Notes             string     `json:"notes"`
	SourceOrders      []string   `json:"source_orders"`
}

// UpdateMaterialRequirementRequest edición parcial; no dispara recálculo.
// planning_end_date null no se distingue de ausente: para volver a un horizonte abierto
// se envía clear_planning_end_date=true.
type UpdateMaterialRequirementRequest struct {
	ReferenceNumber      *string    `json:"reference_number" validate:"omitempty,max=50"`
	PlanningStartDate    *time.Time `json:"planning_start_date"`
	PlanningEndDate      *time.Time `json:"planning_end_date"`
	ClearPlanningEndDate bool       `json:"clear_planning_end_date"`
	ConsiderStock        *bool      `json:"consider_stock"`
	ConsiderMinStock     *bool      `json:"consider_min_stock"`
	Notes                *string    `json:"notes"`
	SourceOrders         *[]string  `json:"source_orders"`
}

// MaterialRequirementItemResponse ítem calculado (solo salida).
type MaterialRequirementItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	ProductType       string          `json:"product_type"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	QuantityToProcure decimal.Decimal `json:"quantity_to_procure"`
	RequirementDate   time.Time       `json:"requirement_date"`
	PlannedOrderDate  time.Time       `json:"planned_order_date"`
	LeadTimeDays      int             `json:"lead_time_days"`
	IsAvailable       bool            `json:"is_available"`
	Unit              string          `json:"unit"`
	Notes             string          `json:"notes"`
}

// MaterialRequirementResponse requerimiento con ítems e IDs de órdenes origen.
type MaterialRequirementResponse struct {
	ID                string                            `json:"id"`
	ReferenceNumber   string                            `json:"reference_number"`
	Status            string                            `json:"status"`
	CreationDate      time.Time                         `json:"creation_date"`
	CalculationDate   *time.Time                        `json:"calculation_date"`
	PlanningStartDate time.Time                         `json:"planning_start_date"`
	PlanningEndDate   *time.Time                        `json:"planning_end_date"`
	ConsiderStock     bool                              `json:"consider_stock"`
	ConsiderMinStock  bool                              `json:"consider_min_stock"`
	Notes             string                            `json:"notes"`
	CreatedBy         string                            `json:"created_by"`
	SourceOrders      []string                          `json:"source_orders"`
	Items             []MaterialRequirementItemResponse `json:"items"`
}

// MaterialRequirementSummary fila del listado (sin ítems).
type MaterialRequirementSummary struct {
	ID                string     `json:"id"`
	ReferenceNumber   string     `json:"reference_number"`
	Status            string     `json:"status"`
	CreationDate      time.Time  `json:"creation_date"`
	CalculationDate   *time.Time `json:"calculation_date"`
	PlanningStartDate time.Time  `json:"planning_start_date"`
	PlanningEndDate   *time.Time `json:"planning_end_date"`
	SourceOrderCount  int        `json:"source_order_count"`
}

// MaterialRequirementListResponse lista paginada de requerimientos.
type MaterialRequirementListResponse struct {
	Items []MaterialRequirementSummary `json:"items"`
	Page  PageResponse                 `json:"page"`
}

// SourceOrderResponse orden origen resuelta en el detalle.
type SourceOrderResponse struct {
	ID           string     `json:"id"`
	OrderNumber  string     `json:"order_number"`
	Status       string     `json:"status"`
	RequiredDate *time.Time `json:"required_date"`
	OrderDate    time.Time  `json:"order_date"`
}

// MaterialRequirementDetailsResponse requerimiento completo con órdenes origen resueltas.
type MaterialRequirementDetailsResponse struct {
	MaterialRequirementResponse
	SourceOrderDetails []SourceOrderResponse `json:"source_order_details"`
}
