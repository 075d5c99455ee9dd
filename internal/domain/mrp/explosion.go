package mrp

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// DefaultMaxDepth profundidad máxima de anidamiento de BOMs.
const DefaultMaxDepth = 64

// Exploder expande BOMs de forma iterativa sobre un Catalog.
type Exploder struct {
	catalog  *Catalog
	maxDepth int
}

// NewExploder construye el explosionador. maxDepth <= 0 usa DefaultMaxDepth.
func NewExploder(catalog *Catalog, maxDepth int) *Exploder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Exploder{catalog: catalog, maxDepth: maxDepth}
}

// frame unidad de trabajo de la pila: producto, cantidad acumulada y camino desde la raíz.
type frame struct {
	productID string
	quantity  decimal.Decimal
	path      []string
}

// Explode devuelve componente base -> cantidad total para fabricar quantity unidades de productID.
// Un producto hoja (MATERIAL, SERVICE o COMPONENT sin BOM activa) se devuelve a sí mismo.
func (e *Exploder) Explode(productID string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal)
	stack := []frame{{productID: productID, quantity: quantity, path: []string{productID}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		product, ok := e.catalog.Product(f.productID)
		if !ok {
			return nil, fmt.Errorf("%w: producto %s no existe en el catálogo", domain.ErrNotFound, f.productID)
		}

		lines, leaf, err := e.expand(product)
		if err != nil {
			return nil, err
		}
		if leaf {
			result[product.ID] = result[product.ID].Add(f.quantity)
			continue
		}
		if len(f.path) > e.maxDepth {
			return nil, &domain.UnresolvedBOMError{
				ProductCode: product.Code,
				Reason:      fmt.Sprintf("se superó la profundidad máxima de %d niveles", e.maxDepth),
			}
		}

		for _, line := range lines {
			if onPath(f.path, line.ComponentID) {
				return nil, &domain.CyclicBOMError{Path: e.codes(append(f.path, line.ComponentID))}
			}
			path := make([]string, len(f.path), len(f.path)+1)
			copy(path, f.path)
			stack = append(stack, frame{
				productID: line.ComponentID,
				quantity:  f.quantity.Mul(line.Quantity),
				path:      append(path, line.ComponentID),
			})
		}
	}
	return result, nil
}

// expand decide si el producto es hoja o devuelve las líneas utilizables de su BOM activa.
func (e *Exploder) expand(p *entity.Product) ([]entity.BOMItem, bool, error) {
	if !p.Type.Buildable() {
		return nil, true, nil
	}
	bom, ok := e.catalog.ActiveBOM(p.ID)
	if !ok {
		if p.Type == entity.ProductTypeComponent {
			return nil, true, nil
		}
		return nil, false, &domain.UnresolvedBOMError{ProductCode: p.Code, Reason: "no tiene BOM activa"}
	}
	lines := bom.UsableItems()
	if len(lines) == 0 {
		return nil, false, &domain.UnresolvedBOMError{ProductCode: p.Code, Reason: "la BOM activa no tiene líneas"}
	}
	return lines, false, nil
}

func onPath(path []string, id string) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

// codes traduce IDs a códigos de producto para mensajes legibles.
func (e *Exploder) codes(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if p, ok := e.catalog.Product(id); ok {
			out[i] = p.Code
		} else {
			out[i] = id
		}
	}
	return out
}
