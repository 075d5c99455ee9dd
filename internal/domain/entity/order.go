package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tipo de orden.
type OrderType string

const (
	OrderTypeProduction OrderType = "PRODUCTION"
	OrderTypePurchase   OrderType = "PURCHASE"
)

// Valid indica si el tipo es conocido.
func (t OrderType) Valid() bool {
	return t == OrderTypeProduction || t == OrderTypePurchase
}

// OrderStatus estado de una orden.
type OrderStatus string

const (
	OrderStatusDraft        OrderStatus = "DRAFT"
	OrderStatusSubmitted    OrderStatus = "SUBMITTED"
	OrderStatusConfirmed    OrderStatus = "CONFIRMED"
	OrderStatusInProduction OrderStatus = "IN_PRODUCTION"
	OrderStatusCompleted    OrderStatus = "COMPLETED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// Valid indica si el estado es conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusConfirmed,
		OrderStatusInProduction, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order orden de producción o compra. Solo las CONFIRMED alimentan el MRP.
type Order struct {
	ID                      string
	OrderNumber             string
	Type                    OrderType
	Status                  OrderStatus
	CustomerName            string
	CustomerReference       string
	OrderDate               time.Time
	RequiredDate            *time.Time
	EstimatedCompletionDate *time.Time
	ActualCompletionDate    *time.Time
	Notes                   string
	CreatedBy               string
	Items                   []OrderItem
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// OrderItem línea de la orden.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal // > 0
	UnitPrice *decimal.Decimal
	Position  int
	Notes     string
}

// SetStatus cambia el estado; al completar registra la fecha real de finalización.
func (o *Order) SetStatus(status OrderStatus, now time.Time) {
	o.Status = status
	if status == OrderStatusCompleted {
		t := now
		o.ActualCompletionDate = &t
	}
	o.UpdatedAt = now
}
