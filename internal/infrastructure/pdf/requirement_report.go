// Package pdf genera el informe imprimible de un requerimiento de materiales.
//
// Layout de la página A4 (apaisada):
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: Referencia + estado      │  Fechas + código de barras   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  CONFIGURACIÓN: horizonte / política de stock / órdenes origen   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Req. | Disp. | A pedir | Fechas      │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems / ítems a aprovisionar                           │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

var _ planning.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 192, Green: 0, Blue: 0}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa planning.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateRequirementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateRequirementPDF(
	_ context.Context,
	req *entity.MaterialRequirement,
	orders []*entity.Order,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Requerimiento de materiales "+req.ReferenceNumber, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(settingsRow(req, orders))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(req.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(req.Items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: referencia + estado (izq) y fechas + código de barras (der).
func headerRow(req *entity.MaterialRequirement) core.Row {
	calculated := "—"
	if req.CalculationDate != nil {
		calculated = req.CalculationDate.Format("02/01/2006 15:04")
	}
	return row.New(22).Add(
		col.New(6).Add(
			text.New("REQUERIMIENTO DE MATERIALES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(req.ReferenceNumber, props.Text{
				Style: fontstyle.Bold, Size: 14, Top: 6,
			}),
			text.New("Estado: "+strings.ToUpper(string(req.Status)), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("Creado: "+req.CreationDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
			text.New("Calculado: "+calculated, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewBar(req.ReferenceNumber, props.Barcode{
			Percent: 80, Center: true,
		})),
	)
}

// settingsRow: horizonte, política de stock y órdenes origen.
func settingsRow(req *entity.MaterialRequirement, orders []*entity.Order) core.Row {
	end := "abierto"
	if req.PlanningEndDate != nil {
		end = req.PlanningEndDate.Format(dateLayout)
	}
	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		numbers = append(numbers, o.OrderNumber)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CONFIGURACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Horizonte: %s - %s   |   Considerar stock: %s   |   Considerar stock mínimo: %s",
				req.PlanningStartDate.Format(dateLayout), end,
				yesNo(req.ConsiderStock), yesNo(req.ConsiderMinStock),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Órdenes origen: "+nonEmpty(strings.Join(numbers, ", "), "—"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Requerido", 1, align.Right),
		h("Disponible", 1, align.Right),
		h("A pedir", 1, align.Right),
		h("Unidad", 1, align.Center),
		h("Fecha req.", 1, align.Center),
		h("Pedir el", 1, align.Center),
		h("Lead", 1, align.Center),
	)
}

// tableItemRows: una fila por ítem; las cantidades a aprovisionar se resaltan.
func tableItemRows(items []entity.MaterialRequirementItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		procure := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if it.QuantityToProcure.IsPositive() {
			procure.Style = fontstyle.Bold
			procure.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatQuantity(it.RequiredQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatQuantity(it.AvailableQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatQuantity(it.QuantityToProcure), procure)),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(it.RequirementDate.Format(dateLayout), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(it.PlannedOrderDate.Format(dateLayout), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d d", it.LeadTimeDays), props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

// summaryRow: totales de ítems.
func summaryRow(items []entity.MaterialRequirementItem) core.Row {
	toProcure := 0
	for _, it := range items {
		if it.QuantityToProcure.IsPositive() {
			toProcure++
		}
	}
	return row.New(10).Add(
		col.New(8),
		col.New(4).Add(
			text.New(fmt.Sprintf("Ítems: %d   |   A aprovisionar: %d", len(items), toProcure), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

// formatQuantity formatea con puntos de miles y coma decimal, sin ceros decimales sobrantes.
// Ej: 25000 → "25.000", 1234.5 → "1.234,5"
func formatQuantity(d decimal.Decimal) string {
	s := d.Round(4).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
