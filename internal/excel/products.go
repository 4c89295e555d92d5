// Package excel builds and parses the .xlsx workbooks the application
// exchanges with the outside world.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

// ProductRow is one parsed line of a product import sheet.
type ProductRow struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Price       decimal.Decimal
	BodySize    string
	WaistSize   string
	Length      string
	Description string
}

// cell returns the trimmed cell at index i, or empty past the row's end.
// Trailing empty cells are simply absent from excelize row slices.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parsePrice coerces a price cell defensively; anything unparseable is zero.
func parsePrice(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// ParseProductRows reads the first sheet, skipping the header row and any row
// whose first cell is empty.
func ParseProductRows(r io.Reader) ([]ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	parsed := []ProductRow{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cell(row, 0) == "" {
			continue
		}

		parsed = append(parsed, ProductRow{
			Name:        cell(row, 0),
			Category:    cell(row, 1),
			Size:        cell(row, 2),
			Color:       cell(row, 3),
			Price:       parsePrice(cell(row, 4)),
			BodySize:    cell(row, 5),
			WaistSize:   cell(row, 6),
			Length:      cell(row, 7),
			Description: cell(row, 8),
		})
	}

	return parsed, nil
}

var productHeader = []string{
	"Name", "Category", "Size", "Color", "Price",
	"Body Size", "Waist Size", "Length", "Description", "Barcode",
}

// BuildProductWorkbook renders the full catalog as xlsx bytes.
func BuildProductWorkbook(products []*domain.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, toCells(productHeader)); err != nil {
		return nil, err
	}

	for i, p := range products {
		row := []interface{}{
			p.Name, p.Category, p.Size, p.Color, p.Price.InexactFloat64(),
			p.BodySize, p.WaistSize, p.Length, p.Description, p.Barcode,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell (%d,%d): %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", name, err)
		}
	}
	return nil
}
