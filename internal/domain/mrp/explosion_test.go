package mrp_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/mrp"
)

func TestExplode_ComponentesHojaDeUnNivel(t *testing.T) {
	products, boms := boatFixture()
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	got, err := ex.Explode("boat", dec("2"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertDec(t, "2", got["hull"])
	assertDec(t, "2", got["engine"])
}

func TestExplode_MultiplicaPorNivel(t *testing.T) {
	products := []*entity.Product{
		product("boat", "BOAT-002", entity.ProductTypeFinal, "0", "0", 0),
		product("hull", "HUL-002", entity.ProductTypeComponent, "0", "0", 0),
		product("wood", "WOOD-001", entity.ProductTypeMaterial, "0", "0", 0),
		product("paint", "PAINT-001", entity.ProductTypeMaterial, "0", "0", 0),
	}
	boms := []*entity.BillOfMaterials{
		bom("b1", "boat", "1.0", line("hull", "1"), line("paint", "12")),
		bom("b2", "hull", "1.0", line("wood", "3.5"), line("paint", "4")),
	}
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	got, err := ex.Explode("boat", dec("3"))
	require.NoError(t, err)
	assert.NotContains(t, got, "hull", "un componente con BOM activa se explota, no se reporta")
	assertDec(t, "10.5", got["wood"])
	assertDec(t, "48", got["paint"], "12*3 + 4*3")
}

func TestExplode_Linealidad(t *testing.T) {
	products := []*entity.Product{
		product("p", "P", entity.ProductTypeFinal, "0", "0", 0),
		product("c", "C", entity.ProductTypeComponent, "0", "0", 0),
		product("m", "M", entity.ProductTypeMaterial, "0", "0", 0),
	}
	boms := []*entity.BillOfMaterials{
		bom("b1", "p", "1", line("c", "0.25"), line("m", "1.3")),
		bom("b2", "c", "1", line("m", "7")),
	}
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	single, err := ex.Explode("p", dec("1.5"))
	require.NoError(t, err)
	double, err := ex.Explode("p", dec("3"))
	require.NoError(t, err)

	require.Len(t, double, len(single))
	for id, q := range single {
		assert.True(t, q.Mul(dec("2")).Equal(double[id]), "explode(P, 2q) == 2*explode(P, q) para %s", id)
	}
}

func TestExplode_LineasOpcionalesSeOmiten(t *testing.T) {
	products, boms := boatFixture()
	products = append(products, product("seat", "SEAT-001", entity.ProductTypeComponent, "0", "0", 0))
	opt := line("seat", "2")
	opt.IsOptional = true
	boms[0].Items = append(boms[0].Items, opt)
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	got, err := ex.Explode("boat", dec("1"))
	require.NoError(t, err)
	assert.NotContains(t, got, "seat")
}

func TestExplode_ProductoHojaPedidoDirectamente(t *testing.T) {
	products, boms := boatFixture()
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	got, err := ex.Explode("engine", dec("4"))
	require.NoError(t, err)
	assertDec(t, "4", got["engine"])
}

func TestExplode_FinalSinBOM_Unresolved(t *testing.T) {
	products, _ := boatFixture()
	ex := mrp.NewExploder(mrp.NewCatalog(products, nil), 0)

	_, err := ex.Explode("boat", dec("1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnresolvedBOM))
	var ue *domain.UnresolvedBOMError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "BOAT-001", ue.ProductCode)
}

func TestExplode_ComponenteFueraDeCatalogo_NotFound(t *testing.T) {
	products, boms := boatFixture()
	boms[0].Items = append(boms[0].Items, line("ghost", "1"))
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	_, err := ex.Explode("boat", dec("1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrUnresolvedBOM)
	assert.Contains(t, err.Error(), "ghost")
}

func TestExplode_BOMInactivaNoCuenta(t *testing.T) {
	products, boms := boatFixture()
	boms[0].IsActive = false
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	_, err := ex.Explode("boat", dec("1"))
	assert.ErrorIs(t, err, domain.ErrUnresolvedBOM)
}

func TestExplode_BOMSinLineasUtilizables_Unresolved(t *testing.T) {
	products, boms := boatFixture()
	for i := range boms[0].Items {
		boms[0].Items[i].IsOptional = true
	}
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	_, err := ex.Explode("boat", dec("1"))
	assert.ErrorIs(t, err, domain.ErrUnresolvedBOM)
}

func TestExplode_CicloAB(t *testing.T) {
	products := []*entity.Product{
		product("a", "A", entity.ProductTypeFinal, "0", "0", 0),
		product("b", "B", entity.ProductTypeComponent, "0", "0", 0),
	}
	boms := []*entity.BillOfMaterials{
		bom("ba", "a", "1", line("b", "1")),
		bom("bb", "b", "1", line("a", "1")),
	}
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	_, err := ex.Explode("a", dec("1"))
	require.Error(t, err)
	var ce *domain.CyclicBOMError
	require.True(t, errors.As(err, &ce), "debe ser CyclicBOMError, fue %v", err)
	assert.Equal(t, []string{"A", "B", "A"}, ce.Path)
	assert.ErrorIs(t, err, domain.ErrCyclicBOM)
}

func TestExplode_MismoComponenteEnRamasDistintasNoEsCiclo(t *testing.T) {
	products := []*entity.Product{
		product("p", "P", entity.ProductTypeFinal, "0", "0", 0),
		product("x", "X", entity.ProductTypeComponent, "0", "0", 0),
		product("y", "Y", entity.ProductTypeComponent, "0", "0", 0),
		product("m", "M", entity.ProductTypeMaterial, "0", "0", 0),
	}
	boms := []*entity.BillOfMaterials{
		bom("bp", "p", "1", line("x", "1"), line("y", "1")),
		bom("bx", "x", "1", line("m", "2")),
		bom("by", "y", "1", line("m", "3")),
	}
	ex := mrp.NewExploder(mrp.NewCatalog(products, boms), 0)

	got, err := ex.Explode("p", dec("1"))
	require.NoError(t, err)
	assertDec(t, "5", got["m"])
}

func TestExplode_ProfundidadMaxima(t *testing.T) {
	products := []*entity.Product{
		product("l0", "L0", entity.ProductTypeFinal, "0", "0", 0),
		product("l1", "L1", entity.ProductTypeComponent, "0", "0", 0),
		product("l2", "L2", entity.ProductTypeComponent, "0", "0", 0),
		product("l3", "L3", entity.ProductTypeComponent, "0", "0", 0),
		product("m", "M", entity.ProductTypeMaterial, "0", "0", 0),
	}
	boms := []*entity.BillOfMaterials{
		bom("b0", "l0", "1", line("l1", "1")),
		bom("b1", "l1", "1", line("l2", "1")),
		bom("b2", "l2", "1", line("l3", "1")),
		bom("b3", "l3", "1", line("m", "1")),
	}
	catalog := mrp.NewCatalog(products, boms)

	_, err := mrp.NewExploder(catalog, 2).Explode("l0", dec("1"))
	assert.ErrorIs(t, err, domain.ErrUnresolvedBOM)

	got, err := mrp.NewExploder(catalog, 4).Explode("l0", dec("1"))
	require.NoError(t, err)
	assertDec(t, "1", got["m"])
}

func TestCatalog_SeleccionaVersionMasAlta(t *testing.T) {
	products, _ := boatFixture()
	old := bom("old", "boat", "1.9", line("hull", "1"))
	newer := bom("new", "boat", "1.10", line("engine", "1"))
	inactive := bom("inactive", "boat", "9.0", line("hull", "9"))
	inactive.IsActive = false

	catalog := mrp.NewCatalog(products, []*entity.BillOfMaterials{old, newer, inactive})
	selected, ok := catalog.ActiveBOM("boat")
	require.True(t, ok)
	assert.Equal(t, "new", selected.ID, "1.10 > 1.9 comparando segmentos numéricos")
}

func TestSelectActiveBOM_EmpateVersion_GanaLaMasReciente(t *testing.T) {
	a := bom("a", "p", "1.0")
	b := bom("b", "p", "1.0")
	b.CreatedAt = date("2025-02-01")

	assert.Equal(t, "b", mrp.SelectActiveBOM([]*entity.BillOfMaterials{a, b}).ID)
	assert.Equal(t, "b", mrp.SelectActiveBOM([]*entity.BillOfMaterials{b, a}).ID)
	assert.Nil(t, mrp.SelectActiveBOM(nil))
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1", "1.0", 0},
		{"1.2", "1.10", -1},
		{"2.0", "1.99", 1},
		{"1.0-beta", "1.0-alpha", 1},
		{"1.a", "1.2", 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, mrp.CompareVersions(c.a, c.b), "%s vs %s", c.a, c.b)
	}
}
