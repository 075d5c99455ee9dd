package csvimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

// Result resumen de una importación.
type Result struct {
	Created int
	Skipped int
}

// Importer da de alta productos y BOMs leídos del CSV pasando por los casos de uso,
// de modo que aplican las mismas validaciones que la API.
type Importer struct {
	products    *usecase.ProductUseCase
	boms        *usecase.BOMUseCase
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(products *usecase.ProductUseCase, boms *usecase.BOMUseCase, productRepo repository.ProductRepository, log *logger.Logger) *Importer {
	return &Importer{products: products, boms: boms, productRepo: productRepo, log: log.Component("csvimport")}
}

// ImportProducts crea los productos. Los códigos ya existentes se omiten.
func (im *Importer) ImportProducts(ctx context.Context, rows []dto.CreateProductRequest) (Result, error) {
	var res Result
	for _, in := range rows {
		if _, err := im.products.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.Skipped++
				im.log.Warn().Str("code", in.Code).Msg("producto existente, se omite")
				continue
			}
			return res, fmt.Errorf("producto %s: %w", in.Code, err)
		}
		res.Created++
	}
	return res, nil
}

// ImportBOMs crea las BOMs resolviendo productos y componentes por código.
func (im *Importer) ImportBOMs(ctx context.Context, defs []BOMDefinition) (Result, error) {
	var res Result
	for _, def := range defs {
		product, err := im.byCode(ctx, def.ProductCode)
		if err != nil {
			return res, err
		}
		in := dto.CreateBOMRequest{
			Name:      def.Name,
			ProductID: product,
			Version:   def.Version,
			Items:     make([]dto.BOMItemRequest, 0, len(def.Lines)),
		}
		for i, l := range def.Lines {
			component, err := im.byCode(ctx, l.ComponentCode)
			if err != nil {
				return res, err
			}
			in.Items = append(in.Items, dto.BOMItemRequest{
				ComponentID: component,
				Quantity:    l.Quantity,
				Position:    i + 1,
				Notes:       l.Notes,
				IsOptional:  l.IsOptional,
			})
		}
		if _, err := im.boms.Create(ctx, in); err != nil {
			return res, fmt.Errorf("BOM de %s: %w", def.ProductCode, err)
		}
		res.Created++
	}
	return res, nil
}

func (im *Importer) byCode(ctx context.Context, code string) (string, error) {
	p, err := im.productRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("%w: producto con código %s", domain.ErrNotFound, code)
	}
	return p.ID, nil
}
