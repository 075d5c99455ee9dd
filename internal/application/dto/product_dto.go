package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code            string           `json:"code" validate:"required,min=1,max=50"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Description     string           `json:"description"`
	ProductType     string           `json:"product_type" validate:"required,oneof=FINAL COMPONENT MATERIAL SERVICE"`
	Unit            string           `json:"unit" validate:"omitempty,max=20"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock decimal.Decimal  `json:"quantity_in_stock"`
	MinimumStock    decimal.Decimal  `json:"minimum_stock"`
	LeadTimeDays    int              `json:"lead_time_days" validate:"min=0"`
	Active          *bool            `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Code            *string          `json:"code" validate:"omitempty,min=1,max=50"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description"`
	ProductType     *string          `json:"product_type" validate:"omitempty,oneof=FINAL COMPONENT MATERIAL SERVICE"`
	Unit            *string          `json:"unit" validate:"omitempty,max=20"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock *decimal.Decimal `json:"quantity_in_stock"`
	MinimumStock    *decimal.Decimal `json:"minimum_stock"`
	LeadTimeDays    *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	Active          *bool            `json:"active"`
}

// ProductFilterRequest filtros de listado de productos.
type ProductFilterRequest struct {
	Search      string
	ProductType string
	Active      *bool
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	ProductType     string           `json:"product_type"`
	Unit            string           `json:"unit"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock decimal.Decimal  `json:"quantity_in_stock"`
	MinimumStock    decimal.Decimal  `json:"minimum_stock"`
	LeadTimeDays    int              `json:"lead_time_days"`
	Active          bool             `json:"active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
