package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType clasifica el producto para la planificación.
type ProductType string

const (
	ProductTypeFinal     ProductType = "FINAL"
	ProductTypeComponent ProductType = "COMPONENT"
	ProductTypeMaterial  ProductType = "MATERIAL"
	ProductTypeService   ProductType = "SERVICE"
)

// Valid indica si el tipo es uno de los conocidos.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeFinal, ProductTypeComponent, ProductTypeMaterial, ProductTypeService:
		return true
	}
	return false
}

// Buildable indica si el producto puede tener su propia BOM.
func (t ProductType) Buildable() bool {
	return t == ProductTypeFinal || t == ProductTypeComponent
}

// DefaultUnit unidad de medida por defecto.
const DefaultUnit = "pcs"

// Product representa un artículo del catálogo (producto final, componente, material o servicio).
type Product struct {
	ID              string
	Code            string // código único y estable
	Name            string
	Description     string
	Type            ProductType
	Unit            string
	Price           *decimal.Decimal // opcional
	QuantityInStock decimal.Decimal
	MinimumStock    decimal.Decimal
	LeadTimeDays    int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
