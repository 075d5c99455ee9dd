package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMItemRequest línea de BOM en la entrada.
type BOMItemRequest struct {
	ComponentID string          `json:"component_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Position    int             `json:"position" validate:"min=0"`
	Notes       string          `json:"notes"`
	IsOptional  bool            `json:"is_optional"`
}

// CreateBOMRequest entrada para crear una BOM.
type CreateBOMRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	ProductID   string           `json:"product_id" validate:"required"`
	Version     string           `json:"version" validate:"omitempty,max=20"`
	IsActive    *bool            `json:"is_active"`
	Items       []BOMItemRequest `json:"items" validate:"dive"`
}

// UpdateBOMRequest entrada para actualizar una BOM. Si Items viene, reemplaza todas las líneas.
type UpdateBOMRequest struct {
	Name        *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description"`
	Version     *string           `json:"version" validate:"omitempty,max=20"`
	IsActive    *bool             `json:"is_active"`
	Items       *[]BOMItemRequest `json:"items"`
}

// BOMFilterRequest filtros de listado de BOMs.
type BOMFilterRequest struct {
	ProductID string
	IsActive  *bool
	PageRequest
}

// BOMItemResponse línea de BOM con datos del componente.
type BOMItemResponse struct {
	ID            string          `json:"id"`
	ComponentID   string          `json:"component_id"`
	ComponentCode string          `json:"component_code"`
	ComponentName string          `json:"component_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Position      int             `json:"position"`
	Notes         string          `json:"notes"`
	IsOptional    bool            `json:"is_optional"`
}

// BOMResponse salida de una BOM.
type BOMResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ProductID   string            `json:"product_id"`
	Version     string            `json:"version"`
	IsActive    bool              `json:"is_active"`
	Items       []BOMItemResponse `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BOMListResponse lista paginada de BOMs.
type BOMListResponse struct {
	Items []BOMResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
