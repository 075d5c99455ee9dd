package mrp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/mrp"
)

func TestNet_SinConsiderarStock(t *testing.T) {
	p := product("x", "X", entity.ProductTypeMaterial, "100", "10", 0)

	r := mrp.Net(dec("7"), p, mrp.StockPolicy{})
	assertDec(t, "0", r.Available)
	assertDec(t, "7", r.ToProcure)
	assert.False(t, r.IsAvailable)
}

func TestNet_ConStock(t *testing.T) {
	p := product("x", "X", entity.ProductTypeMaterial, "5", "2", 0)

	r := mrp.Net(dec("7"), p, mrp.StockPolicy{ConsiderStock: true})
	assertDec(t, "5", r.Available)
	assertDec(t, "2", r.ToProcure)

	r = mrp.Net(dec("4"), p, mrp.StockPolicy{ConsiderStock: true})
	assertDec(t, "0", r.ToProcure)
	assert.True(t, r.IsAvailable)
}

func TestNet_ConStockMinimo(t *testing.T) {
	p := product("x", "X", entity.ProductTypeMaterial, "5", "2", 0)
	policy := mrp.StockPolicy{ConsiderStock: true, ConsiderMinStock: true}

	r := mrp.Net(dec("4"), p, policy)
	assertDec(t, "3", r.Available)
	assertDec(t, "1", r.ToProcure)

	below := product("y", "Y", entity.ProductTypeMaterial, "1", "4", 0)
	r = mrp.Net(dec("2"), below, policy)
	assertDec(t, "0", r.Available, "disponible nunca es negativo")
	assertDec(t, "2", r.ToProcure)
}

func TestNet_MonotoniaEnStockYMinimo(t *testing.T) {
	policy := mrp.StockPolicy{ConsiderStock: true, ConsiderMinStock: true}
	required := dec("10")

	prev := mrp.Net(required, product("x", "X", entity.ProductTypeMaterial, "0", "2", 0), policy).ToProcure
	for _, stock := range []string{"1", "3", "6", "12", "20"} {
		cur := mrp.Net(required, product("x", "X", entity.ProductTypeMaterial, stock, "2", 0), policy).ToProcure
		assert.True(t, cur.LessThanOrEqual(prev), "más stock no aumenta la compra (stock=%s)", stock)
		prev = cur
	}

	prev = mrp.Net(required, product("x", "X", entity.ProductTypeMaterial, "8", "0", 0), policy).ToProcure
	for _, min := range []string{"1", "3", "8", "15"} {
		cur := mrp.Net(required, product("x", "X", entity.ProductTypeMaterial, "8", min, 0), policy).ToProcure
		assert.True(t, cur.GreaterThanOrEqual(prev), "más stock mínimo no reduce la compra (min=%s)", min)
		prev = cur
	}
}

func TestPlannedOrderDate_RestaLeadTime(t *testing.T) {
	assert.Equal(t, date("2025-03-16"), mrp.PlannedOrderDate(date("2025-04-15"), 30))
	assert.Equal(t, date("2025-04-15"), mrp.PlannedOrderDate(date("2025-04-15"), 0))
	assert.Equal(t, date("2024-12-31"), mrp.PlannedOrderDate(date("2025-01-01"), 1))
}
