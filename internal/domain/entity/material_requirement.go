package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequirementStatus estado del ciclo de vida de un MaterialRequirement.
type RequirementStatus string

const (
	RequirementDraft      RequirementStatus = "draft"
	RequirementCalculated RequirementStatus = "calculated"
	RequirementProcessing RequirementStatus = "processing"
	RequirementCompleted  RequirementStatus = "completed"
	RequirementCancelled  RequirementStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementDraft, RequirementCalculated, RequirementProcessing,
		RequirementCompleted, RequirementCancelled:
		return true
	}
	return false
}

// transiciones manuales permitidas (el paso a calculated solo ocurre al calcular).
var requirementTransitions = map[RequirementStatus][]RequirementStatus{
	RequirementDraft:      {RequirementCancelled},
	RequirementCalculated: {RequirementProcessing, RequirementCancelled},
	RequirementProcessing: {RequirementCompleted, RequirementCancelled},
}

// MaterialRequirement unidad de trabajo de planificación: configuración, órdenes origen e ítems calculados.
type MaterialRequirement struct {
	ID                string
	ReferenceNumber   string
	Status            RequirementStatus
	CreationDate      time.Time
	CalculationDate   *time.Time
	PlanningStartDate time.Time
	PlanningEndDate   *time.Time // nil = horizonte abierto
	ConsiderStock     bool
	ConsiderMinStock  bool // solo tiene efecto con ConsiderStock
	Notes             string
	CreatedBy         string
	SourceOrderIDs    []string
	Items             []MaterialRequirementItem
	UpdatedAt         time.Time
}

// MaterialRequirementItem resultado calculado para un componente base. Inmutable una vez escrito.
type MaterialRequirementItem struct {
	ID                string
	RequirementID     string
	ProductID         string
	ProductCode       string
	ProductName       string
	ProductType       ProductType
	RequiredQuantity  decimal.Decimal
	AvailableQuantity decimal.Decimal
	QuantityToProcure decimal.Decimal
	RequirementDate   time.Time
	PlannedOrderDate  time.Time
	LeadTimeDays      int
	IsAvailable       bool
	Unit              string
	Notes             string
}

// CanCalculate solo draft o calculated admiten (re)cálculo.
func (m *MaterialRequirement) CanCalculate() bool {
	return m.Status == RequirementDraft || m.Status == RequirementCalculated
}

// CanEdit solo draft o calculated admiten edición de configuración.
func (m *MaterialRequirement) CanEdit() bool {
	return m.Status == RequirementDraft || m.Status == RequirementCalculated
}

// CanDelete processing y completed no se eliminan.
func (m *MaterialRequirement) CanDelete() bool {
	return m.Status != RequirementProcessing && m.Status != RequirementCompleted
}

// CanTransitionTo indica si la transición manual a target es válida.
func (m *MaterialRequirement) CanTransitionTo(target RequirementStatus) bool {
	for _, s := range requirementTransitions[m.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// ApplyCalculation reemplaza los ítems y marca el requerimiento como calculado.
func (m *MaterialRequirement) ApplyCalculation(items []MaterialRequirementItem, now time.Time) {
	for i := range items {
		items[i].RequirementID = m.ID
	}
	m.Items = items
	t := now
	m.CalculationDate = &t
	m.Status = RequirementCalculated
	m.UpdatedAt = now
}
