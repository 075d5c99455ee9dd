// Package csvimport lee catálogos de productos y BOMs desde CSV exportados por hojas de cálculo
// u otros ERP, que suelen venir en Latin-1 o Windows-125x y separados por punto y coma.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/mrp-api/internal/application/dto"
)

// Options formato del archivo.
type Options struct {
	Charset string // utf-8 (defecto), iso-8859-1, windows-1252, windows-1250
	Comma   rune   // separador; 0 = ','
}

// BOMLine una fila del CSV de BOMs.
type BOMLine struct {
	ComponentCode string
	Quantity      decimal.Decimal
	IsOptional    bool
	Notes         string
}

// BOMDefinition BOM agrupada por producto y versión.
type BOMDefinition struct {
	ProductCode string
	Name        string
	Version     string
	Lines       []BOMLine
}

// decoderFor devuelve la codificación de origen. nil significa UTF-8.
func decoderFor(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(charset), "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "windows-1250", "cp1250":
		return charmap.Windows1250, nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

func newReader(r io.Reader, opts Options) (*csv.Reader, error) {
	enc, err := decoderFor(opts.Charset)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	} else {
		// Quita el BOM UTF-8 que añaden algunas hojas de cálculo.
		r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr, nil
}

// table filas del CSV indexadas por nombre de columna (cabecera en minúsculas).
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader, opts Options, required ...string) (*table, error) {
	cr, err := newReader(r, opts)
	if err != nil {
		return nil, err
	}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("archivo vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	t := &table{index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	t.rows, err = cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDecimal acepta coma decimal ("1,5") además de punto.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// ReadProducts lee productos. Columnas: code, name, product_type y opcionales description, unit,
// quantity_in_stock, minimum_stock, lead_time_days, price.
func ReadProducts(r io.Reader, opts Options) ([]dto.CreateProductRequest, error) {
	t, err := readTable(r, opts, "code", "name", "product_type")
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreateProductRequest, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		in := dto.CreateProductRequest{
			Code:        t.get(row, "code"),
			Name:        t.get(row, "name"),
			Description: t.get(row, "description"),
			ProductType: strings.ToUpper(t.get(row, "product_type")),
			Unit:        t.get(row, "unit"),
		}
		if in.Code == "" {
			continue
		}
		if in.QuantityInStock, err = parseDecimal(t.get(row, "quantity_in_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: quantity_in_stock: %w", line, err)
		}
		if in.MinimumStock, err = parseDecimal(t.get(row, "minimum_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: minimum_stock: %w", line, err)
		}
		if raw := t.get(row, "lead_time_days"); raw != "" {
			if in.LeadTimeDays, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("línea %d: lead_time_days: %w", line, err)
			}
		}
		if raw := t.get(row, "price"); raw != "" {
			price, err := parseDecimal(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: price: %w", line, err)
			}
			in.Price = &price
		}
		out = append(out, in)
	}
	return out, nil
}

// ReadBOMs lee líneas de BOM y las agrupa por (product_code, version) en orden de aparición.
// Columnas: product_code, component_code, quantity y opcionales version, name, is_optional, notes.
func ReadBOMs(r io.Reader, opts Options) ([]BOMDefinition, error) {
	t, err := readTable(r, opts, "product_code", "component_code", "quantity")
	if err != nil {
		return nil, err
	}
	var out []BOMDefinition
	pos := make(map[string]int)
	for n, row := range t.rows {
		line := n + 2
		product := t.get(row, "product_code")
		component := t.get(row, "component_code")
		if product == "" || component == "" {
			continue
		}
		qty, err := parseDecimal(t.get(row, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantity: %w", line, err)
		}
		optional := false
		if raw := t.get(row, "is_optional"); raw != "" {
			optional = isTruthy(raw)
		}
		version := t.get(row, "version")
		key := product + "\x00" + version
		i, ok := pos[key]
		if !ok {
			name := t.get(row, "name")
			if name == "" {
				name = "BOM " + product
			}
			out = append(out, BOMDefinition{ProductCode: product, Name: name, Version: version})
			i = len(out) - 1
			pos[key] = i
		}
		out[i].Lines = append(out[i].Lines, BOMLine{
			ComponentCode: component,
			Quantity:      qty,
			IsOptional:    optional,
			Notes:         t.get(row, "notes"),
		})
	}
	return out, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "si", "sí", "yes", "x":
		return true
	}
	return false
}
