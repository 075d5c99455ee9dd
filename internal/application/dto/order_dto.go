package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de orden en la entrada.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Position  int              `json:"position" validate:"min=0"`
	Notes     string           `json:"notes"`
}

// CreateOrderRequest entrada para crear una orden.
type CreateOrderRequest struct {
	OrderNumber             string             `json:"order_number" validate:"required,min=1,max=50"`
	OrderType               string             `json:"order_type" validate:"required,oneof=PRODUCTION PURCHASE"`
	Status                  string             `json:"status" validate:"omitempty,oneof=DRAFT SUBMITTED CONFIRMED IN_PRODUCTION COMPLETED CANCELLED"`
	CustomerName            string             `json:"customer_name" validate:"max=200"`
	CustomerReference       string             `json:"customer_reference" validate:"max=100"`
	OrderDate               *time.Time         `json:"order_date"`
	RequiredDate            *time.Time         `json:"required_date"`
	EstimatedCompletionDate *time.Time         `json:"estimated_completion_date"`
	Notes                   string             `json:"notes"`
	Items                   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest entrada para actualizar una orden. Si Items viene, reemplaza todas las líneas.
type UpdateOrderRequest struct {
	OrderType               *string             `json:"order_type" validate:"omitempty,oneof=PRODUCTION PURCHASE"`
	CustomerName            *string             `json:"customer_name" validate:"omitempty,max=200"`
	CustomerReference       *string             `json:"customer_reference" validate:"omitempty,max=100"`
	OrderDate               *time.Time          `json:"order_date"`
	RequiredDate            *time.Time          `json:"required_date"`
	EstimatedCompletionDate *time.Time          `json:"estimated_completion_date"`
	Notes                   *string             `json:"notes"`
	Items                   *[]OrderItemRequest `json:"items"`
}

// ChangeStatusRequest cambio de estado (órdenes y requerimientos).
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderFilterRequest filtros de listado de órdenes.
type OrderFilterRequest struct {
	Status    string
	OrderType string
	From      *time.Time
	To        *time.Time
	PageRequest
}

// OrderItemResponse línea de orden.
type OrderItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Position  int              `json:"position"`
	Notes     string           `json:"notes"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                      string              `json:"id"`
	OrderNumber             string              `json:"order_number"`
	OrderType               string              `json:"order_type"`
	Status                  string              `json:"status"`
	CustomerName            string              `json:"customer_name"`
	CustomerReference       string              `json:"customer_reference"`
	OrderDate               time.Time           `json:"order_date"`
	RequiredDate            *time.Time          `json:"required_date"`
	EstimatedCompletionDate *time.Time          `json:"estimated_completion_date"`
	ActualCompletionDate    *time.Time          `json:"actual_completion_date"`
	Notes                   string              `json:"notes"`
	CreatedBy               string              `json:"created_by"`
	Items                   []OrderItemResponse `json:"items"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
