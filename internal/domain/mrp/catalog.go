// Package mrp contiene el motor de planificación de requerimientos de materiales:
// explosión de BOM, agregación de demanda, neteo contra stock y cálculo de fechas.
// No tiene dependencias de infraestructura; opera sobre un snapshot del catálogo.
package mrp

import (
	"strconv"
	"strings"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Catalog snapshot inmutable de productos y BOM activa por producto para un cálculo.
type Catalog struct {
	products map[string]*entity.Product
	boms     map[string]*entity.BillOfMaterials
}

// NewCatalog construye el snapshot. boms puede contener varias BOMs activas por producto;
// se elige una con SelectActiveBOM. Las BOMs inactivas se ignoran.
func NewCatalog(products []*entity.Product, boms []*entity.BillOfMaterials) *Catalog {
	c := &Catalog{
		products: make(map[string]*entity.Product, len(products)),
		boms:     make(map[string]*entity.BillOfMaterials),
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	byProduct := make(map[string][]*entity.BillOfMaterials)
	for _, b := range boms {
		if !b.IsActive {
			continue
		}
		byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
	}
	for productID, list := range byProduct {
		if selected := SelectActiveBOM(list); selected != nil {
			c.boms[productID] = selected
		}
	}
	return c
}

// Product devuelve el producto por ID.
func (c *Catalog) Product(id string) (*entity.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// ActiveBOM devuelve la BOM activa seleccionada para el producto.
func (c *Catalog) ActiveBOM(productID string) (*entity.BillOfMaterials, bool) {
	b, ok := c.boms[productID]
	return b, ok
}

// SelectActiveBOM elige entre BOMs activas la de versión más alta.
// Empate: la creada más recientemente y luego el mayor ID.
func SelectActiveBOM(boms []*entity.BillOfMaterials) *entity.BillOfMaterials {
	var best *entity.BillOfMaterials
	for _, b := range boms {
		if !b.IsActive {
			continue
		}
		if best == nil || bomBefore(best, b) {
			best = b
		}
	}
	return best
}

// bomBefore indica si a tiene menor prioridad que b.
func bomBefore(a, b *entity.BillOfMaterials) bool {
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c < 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// CompareVersions compara versiones separadas por puntos. Los segmentos numéricos se comparan
// como números y el resto lexicográficamente; un segmento faltante cuenta como "0".
// Devuelve -1, 0 o 1.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")
	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		x, y := "0", "0"
		if i < len(as) && as[i] != "" {
			x = as[i]
		}
		if i < len(bs) && bs[i] != "" {
			y = bs[i]
		}
		if c := compareSegment(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(x, y string) int {
	xn, xerr := strconv.ParseInt(x, 10, 64)
	yn, yerr := strconv.ParseInt(y, 10, 64)
	if xerr == nil && yerr == nil {
		switch {
		case xn < yn:
			return -1
		case xn > yn:
			return 1
		}
		return 0
	}
	return strings.Compare(x, y)
}
