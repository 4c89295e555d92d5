package excel

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

// ProductionRow is one parsed line of a production import sheet. Products are
// referenced by name; resolution happens in the service layer.
type ProductionRow struct {
	ProductName string
	Quantity    int
	Status      string
	Notes       string
}

// ParseProductionRows reads the first sheet, skipping the header row and any
// row whose first cell is empty. Unparseable quantities coerce to zero.
func ParseProductionRows(r io.Reader) ([]ProductionRow, error) {
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

	parsed := []ProductionRow{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cell(row, 0) == "" {
			continue
		}

		quantity, _ := strconv.Atoi(cell(row, 1))
		parsed = append(parsed, ProductionRow{
			ProductName: cell(row, 0),
			Quantity:    quantity,
			Status:      cell(row, 2),
			Notes:       cell(row, 3),
		})
	}

	return parsed, nil
}

var productionHeader = []string{
	"Product Name", "Category", "Size", "Color", "Quantity",
	"Status", "Notes", "Order Type", "Created By", "Created At",
}

// BuildProductionWorkbook renders production orders as xlsx bytes.
func BuildProductionWorkbook(orders []*domain.ProductionOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, toCells(productionHeader)); err != nil {
		return nil, err
	}

	for i, o := range orders {
		row := []interface{}{
			o.ProductName, o.ProductCategory, o.ProductSize, o.ProductColor, o.Quantity,
			o.Status, o.Notes, o.OrderType, o.CreatedBy, o.CreatedAt.Format("2006-01-02 15:04"),
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
