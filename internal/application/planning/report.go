package planning

import (
	"context"
	"fmt"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ExportSpreadsheet genera la hoja XLSX de compras de un requerimiento ya calculado.
func (uc *MaterialRequirementUseCase) ExportSpreadsheet(ctx context.Context, id string) (content []byte, filename string, err error) {
	req, orders, err := uc.loadCalculated(ctx, id)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.exporter.ExportRequirement(ctx, req, orders)
	if err != nil {
		return nil, "", fmt.Errorf("exportar XLSX: %w", err)
	}
	return content, req.ReferenceNumber + ".xlsx", nil
}

// ReportPDF genera el informe PDF de un requerimiento ya calculado.
func (uc *MaterialRequirementUseCase) ReportPDF(ctx context.Context, id string) (content []byte, filename string, err error) {
	req, orders, err := uc.loadCalculated(ctx, id)
	if err != nil {
		return nil, "", err
	}
	content, err = uc.reporter.GenerateRequirementPDF(ctx, req, orders)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return content, req.ReferenceNumber + ".pdf", nil
}

func (uc *MaterialRequirementUseCase) loadCalculated(ctx context.Context, id string) (*entity.MaterialRequirement, []*entity.Order, error) {
	req, err := uc.get(ctx, uc.repo, id)
	if err != nil {
		return nil, nil, err
	}
	if req.CalculationDate == nil {
		return nil, nil, domain.NewConflictError("el requerimiento %s aún no ha sido calculado", req.ReferenceNumber)
	}
	orders, err := uc.orderRepo.GetByIDs(ctx, req.SourceOrderIDs)
	if err != nil {
		return nil, nil, err
	}
	return req, orders, nil
}
