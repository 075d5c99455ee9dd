package csvimport_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/mrp-api/internal/infrastructure/memory"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

const productsCSV = `code;name;product_type;quantity_in_stock;lead_time_days;unit
BOAT-001;Lancha 5m;final;0;0;unit
HUL-001;Casco de fibra;COMPONENT;5;0;unit
ENG-001;Motor 40HP;COMPONENT;3;30;unit
PRP-001;Hélice de aluminio;MATERIAL;2,5;7;unit
`

const bomsCSV = `product_code,version,component_code,quantity,is_optional
BOAT-001,1.0,HUL-001,1,
BOAT-001,1.0,ENG-001,1,
BOAT-001,1.0,PRP-001,1,sí
`

func TestReadProducts_Latin1PuntoYComa(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(productsCSV)
	require.NoError(t, err)

	rows, err := csvimport.ReadProducts(strings.NewReader(latin1), csvimport.Options{Charset: "ISO-8859-1", Comma: ';'})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "FINAL", rows[0].ProductType, "el tipo se normaliza a mayúsculas")
	assert.Equal(t, "Hélice de aluminio", rows[3].Name)
	assert.Equal(t, "2.5", rows[3].QuantityInStock.String(), "acepta coma decimal")
	assert.Equal(t, 30, rows[2].LeadTimeDays)
}

func TestReadProducts_FaltaColumna(t *testing.T) {
	_, err := csvimport.ReadProducts(strings.NewReader("code,name\nA,B\n"), csvimport.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_type")
}

func TestReadProducts_CharsetDesconocido(t *testing.T) {
	_, err := csvimport.ReadProducts(strings.NewReader(productsCSV), csvimport.Options{Charset: "ebcdic"})
	assert.Error(t, err)
}

func TestReadBOMs_AgrupaPorProductoYVersion(t *testing.T) {
	defs, err := csvimport.ReadBOMs(strings.NewReader(bomsCSV), csvimport.Options{})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "BOAT-001", defs[0].ProductCode)
	assert.Equal(t, "1.0", defs[0].Version)
	require.Len(t, defs[0].Lines, 3)
	assert.False(t, defs[0].Lines[0].IsOptional)
	assert.True(t, defs[0].Lines[2].IsOptional)
}

func TestImporter_CreaCatalogoYOmiteExistentes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	boms := memory.NewBOMRepository(store)
	im := csvimport.NewImporter(
		usecase.NewProductUseCase(products, boms),
		usecase.NewBOMUseCase(boms, products),
		products,
		logger.NewNop(),
	)

	rows, err := csvimport.ReadProducts(strings.NewReader(productsCSV), csvimport.Options{Comma: ';'})
	require.NoError(t, err)
	res, err := im.ImportProducts(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, csvimport.Result{Created: 4}, res)

	res, err = im.ImportProducts(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, csvimport.Result{Skipped: 4}, res, "segunda pasada no duplica")

	defs, err := csvimport.ReadBOMs(strings.NewReader(bomsCSV), csvimport.Options{})
	require.NoError(t, err)
	res, err = im.ImportBOMs(ctx, defs)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	active, err := boms.List(ctx, repository.BOMFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Len(t, active[0].Items, 3)
}

func TestImporter_ComponenteInexistente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	boms := memory.NewBOMRepository(store)
	im := csvimport.NewImporter(usecase.NewProductUseCase(products, boms), usecase.NewBOMUseCase(boms, products), products, logger.NewNop())

	defs, err := csvimport.ReadBOMs(strings.NewReader(bomsCSV), csvimport.Options{})
	require.NoError(t, err)
	_, err = im.ImportBOMs(ctx, defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOAT-001")
}
