package mrp_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures: catálogo de lanchas
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("esperado %s, obtenido %s", want, got.String()), msgAndArgs...)
	}
}

func product(id, code string, typ entity.ProductType, stock, minStock string, lead int) *entity.Product {
	return &entity.Product{
		ID:              id,
		Code:            code,
		Name:            code,
		Type:            typ,
		Unit:            entity.DefaultUnit,
		QuantityInStock: dec(stock),
		MinimumStock:    dec(minStock),
		LeadTimeDays:    lead,
		Active:          true,
	}
}

func bom(id, productID, version string, items ...entity.BOMItem) *entity.BillOfMaterials {
	return &entity.BillOfMaterials{
		ID:        id,
		ProductID: productID,
		Version:   version,
		IsActive:  true,
		Items:     items,
		CreatedAt: date("2025-01-01"),
	}
}

func line(componentID, qty string) entity.BOMItem {
	return entity.BOMItem{ComponentID: componentID, Quantity: dec(qty)}
}

func confirmedOrder(id, number string, required *time.Time, lines ...entity.OrderItem) *entity.Order {
	return &entity.Order{
		ID:           id,
		OrderNumber:  number,
		Type:         entity.OrderTypeProduction,
		Status:       entity.OrderStatusConfirmed,
		RequiredDate: required,
		Items:        lines,
	}
}

func orderLine(productID, qty string) entity.OrderItem {
	return entity.OrderItem{ProductID: productID, Quantity: dec(qty)}
}

// boatFixture BOAT-001 = HUL-001 x1 + ENG-001 x1 (ambos COMPONENT sin BOM).
func boatFixture() ([]*entity.Product, []*entity.BillOfMaterials) {
	products := []*entity.Product{
		product("boat", "BOAT-001", entity.ProductTypeFinal, "0", "0", 0),
		product("hull", "HUL-001", entity.ProductTypeComponent, "5", "0", 0),
		product("engine", "ENG-001", entity.ProductTypeComponent, "3", "0", 30),
	}
	boms := []*entity.BillOfMaterials{
		bom("bom-boat", "boat", "1.0", line("hull", "1"), line("engine", "1")),
	}
	return products, boms
}
