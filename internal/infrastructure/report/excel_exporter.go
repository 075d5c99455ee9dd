// Package report genera la hoja de compras XLSX de un requerimiento calculado.
package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

var _ planning.SpreadsheetExporter = (*ExcelExporter)(nil)

const (
	itemsSheet   = "Compras"
	sourcesSheet = "Ordenes"
	dateLayout   = "2006-01-02"
)

var itemHeaders = []string{
	"Código", "Producto", "Tipo", "Unidad", "Requerido", "Disponible", "A aprovisionar",
	"Fecha requerida", "Fecha de pedido", "Lead time (días)", "Disponible en stock", "Notas",
}

var itemWidths = []float64{14, 32, 12, 8, 12, 12, 15, 15, 15, 15, 18, 30}

// ExcelExporter implementación de SpreadsheetExporter con excelize.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// ExportRequirement escribe una hoja con los ítems (uno por fila) y otra con las órdenes origen.
func (e *ExcelExporter) ExportRequirement(_ context.Context, req *entity.MaterialRequirement, orders []*entity.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("crear estilo: %w", err)
	}
	procureStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		return nil, fmt.Errorf("crear estilo: %w", err)
	}

	// ── Cabecera del requerimiento ─────────────────────────────────────────────
	_ = f.SetCellValue(itemsSheet, "A1", "Requerimiento")
	_ = f.SetCellValue(itemsSheet, "B1", req.ReferenceNumber)
	_ = f.SetCellValue(itemsSheet, "D1", "Calculado")
	if req.CalculationDate != nil {
		_ = f.SetCellValue(itemsSheet, "E1", req.CalculationDate.Format("2006-01-02 15:04"))
	}

	// ── Ítems ──────────────────────────────────────────────────────────────────
	const headerRow = 3
	for i, h := range itemHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		_ = f.SetCellValue(itemsSheet, cell, h)
		_ = f.SetCellStyle(itemsSheet, cell, cell, headerStyle)
		_ = f.SetColWidth(itemsSheet, col, col, itemWidths[i])
	}
	for i, it := range req.Items {
		row := headerRow + 1 + i
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), it.ProductCode)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), it.ProductName)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), string(it.ProductType))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), it.Unit)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", row), it.RequiredQuantity.InexactFloat64())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("F%d", row), it.AvailableQuantity.InexactFloat64())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("G%d", row), it.QuantityToProcure.InexactFloat64())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("H%d", row), it.RequirementDate.Format(dateLayout))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("I%d", row), it.PlannedOrderDate.Format(dateLayout))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("J%d", row), it.LeadTimeDays)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("K%d", row), yesNo(it.IsAvailable))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("L%d", row), it.Notes)
		if it.QuantityToProcure.IsPositive() {
			cell := fmt.Sprintf("G%d", row)
			_ = f.SetCellStyle(itemsSheet, cell, cell, procureStyle)
		}
	}

	// ── Órdenes origen ─────────────────────────────────────────────────────────
	if _, err := f.NewSheet(sourcesSheet); err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	for i, h := range []string{"Número", "Tipo", "Estado", "Cliente", "Fecha requerida"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		_ = f.SetCellValue(sourcesSheet, cell, h)
		_ = f.SetCellStyle(sourcesSheet, cell, cell, headerStyle)
		_ = f.SetColWidth(sourcesSheet, col, col, 18)
	}
	for i, o := range orders {
		row := i + 2
		_ = f.SetCellValue(sourcesSheet, fmt.Sprintf("A%d", row), o.OrderNumber)
		_ = f.SetCellValue(sourcesSheet, fmt.Sprintf("B%d", row), string(o.Type))
		_ = f.SetCellValue(sourcesSheet, fmt.Sprintf("C%d", row), string(o.Status))
		_ = f.SetCellValue(sourcesSheet, fmt.Sprintf("D%d", row), o.CustomerName)
		if o.RequiredDate != nil {
			_ = f.SetCellValue(sourcesSheet, fmt.Sprintf("E%d", row), o.RequiredDate.Format(dateLayout))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
