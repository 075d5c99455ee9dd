package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBOMVersion versión asignada cuando no se indica otra.
const DefaultBOMVersion = "1.0"

// BillOfMaterials lista de materiales que construye exactamente un producto.
type BillOfMaterials struct {
	ID          string
	Name        string
	Description string
	ProductID   string
	Version     string
	IsActive    bool
	Items       []BOMItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BOMItem línea de la BOM. Unit es solo informativa (copiada del componente).
type BOMItem struct {
	ID          string
	BOMID       string
	ComponentID string
	Quantity    decimal.Decimal // > 0
	Unit        string
	Position    int
	Notes       string
	IsOptional  bool
}

// UsableItems devuelve las líneas que participan en la explosión (no opcionales).
func (b *BillOfMaterials) UsableItems() []BOMItem {
	out := make([]BOMItem, 0, len(b.Items))
	for _, it := range b.Items {
		if it.IsOptional {
			continue
		}
		out = append(out, it)
	}
	return out
}
