package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

// lineDescription renders one purchased line for the delivery manifest.
func lineDescription(name, size, color string, quantity int) string {
	return fmt.Sprintf("%s (%s, %s) x%d", name, size, color, quantity)
}

// orderLines flattens an order into manifest line descriptions.
func orderLines(order *domain.SaleOrder) []string {
	if !order.IsMultiple {
		return []string{lineDescription(order.ProductName, order.ProductSize, order.ProductColor, order.Quantity)}
	}
	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, lineDescription(item.ProductName, item.ProductSize, item.ProductColor, item.Quantity))
	}
	return lines
}

func orderQuantity(order *domain.SaleOrder) int {
	if order.IsMultiple {
		return order.TotalQuantity
	}
	return order.Quantity
}

var manifestHeader = []string{
	"Customer Name", "Phone", "Address", "Products", "Total Quantity",
	"Product Total", "Delivery Charge", "Total Price", "Order Date",
}

// BuildDeliveryManifest renders one row per customer: all their purchased
// lines concatenated with "; ", plus summed totals. Newest customers first.
func BuildDeliveryManifest(orders []*domain.SaleOrder) ([]byte, error) {
	type manifestEntry struct {
		name           string
		phone          string
		address        string
		lines          []string
		quantity       int
		productTotal   decimal.Decimal
		deliveryCharge decimal.Decimal
		totalPrice     decimal.Decimal
		latest         time.Time
	}

	type key struct {
		name  string
		phone string
	}

	byCustomer := map[key]*manifestEntry{}
	entries := []*manifestEntry{}

	for _, order := range orders {
		k := key{name: order.CustomerName, phone: order.CustomerPhone}
		entry, ok := byCustomer[k]
		if !ok {
			entry = &manifestEntry{
				name:           order.CustomerName,
				phone:          order.CustomerPhone,
				address:        order.CustomerAddress,
				productTotal:   decimal.Zero,
				deliveryCharge: decimal.Zero,
				totalPrice:     decimal.Zero,
			}
			byCustomer[k] = entry
			entries = append(entries, entry)
		}

		entry.lines = append(entry.lines, orderLines(order)...)
		entry.quantity += orderQuantity(order)
		entry.productTotal = entry.productTotal.Add(order.ProductTotal)
		entry.deliveryCharge = entry.deliveryCharge.Add(order.DeliveryCharge)
		entry.totalPrice = entry.totalPrice.Add(order.TotalPrice)
		if order.CreatedAt.After(entry.latest) {
			entry.latest = order.CreatedAt
		}
		if entry.address == "" {
			entry.address = order.CustomerAddress
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].latest.After(entries[j].latest)
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, toCells(manifestHeader)); err != nil {
		return nil, err
	}

	for i, e := range entries {
		row := []interface{}{
			e.name, e.phone, e.address, strings.Join(e.lines, "; "), e.quantity,
			e.productTotal.InexactFloat64(), e.deliveryCharge.InexactFloat64(),
			e.totalPrice.InexactFloat64(), e.latest.Format("2006-01-02 15:04"),
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

var replenishmentHeader = []string{
	"Product Name", "Category", "Size", "Color", "Body Size",
	"Waist Size", "Length", "Total Quantity", "Item Numbers",
}

// variantKey is the exact attribute identity that makes two sold lines the
// same replenishable variant.
type variantKey struct {
	name     string
	category string
	color    string
	size     string
	body     string
	waist    string
	length   string
}

// BuildReplenishment explodes every sold line, aggregates quantities by exact
// variant identity and collects the entered item numbers.
func BuildReplenishment(orders []*domain.SaleOrder) ([]byte, error) {
	type variantEntry struct {
		key         variantKey
		quantity    int
		itemNumbers []string
	}

	byVariant := map[variantKey]*variantEntry{}
	entries := []*variantEntry{}

	add := func(k variantKey, quantity int, itemNumbers string) {
		entry, ok := byVariant[k]
		if !ok {
			entry = &variantEntry{key: k}
			byVariant[k] = entry
			entries = append(entries, entry)
		}
		entry.quantity += quantity
		if itemNumbers != "" {
			entry.itemNumbers = append(entry.itemNumbers, itemNumbers)
		}
	}

	for _, order := range orders {
		if order.IsMultiple {
			for _, item := range order.Items {
				add(variantKey{
					name:     item.ProductName,
					category: item.ProductCategory,
					color:    item.ProductColor,
					size:     item.ProductSize,
					body:     item.ProductBodySize,
					waist:    item.ProductWaistSize,
					length:   item.ProductLength,
				}, item.Quantity, item.ItemNumbers)
			}
			continue
		}
		add(variantKey{
			name:     order.ProductName,
			category: order.ProductCategory,
			color:    order.ProductColor,
			size:     order.ProductSize,
			body:     order.ProductBodySize,
			waist:    order.ProductWaistSize,
			length:   order.ProductLength,
		}, order.Quantity, order.ItemNumbers)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].key, entries[j].key
		if a.name != b.name {
			return a.name < b.name
		}
		if a.category != b.category {
			return a.category < b.category
		}
		if a.size != b.size {
			return a.size < b.size
		}
		return a.color < b.color
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, toCells(replenishmentHeader)); err != nil {
		return nil, err
	}

	for i, e := range entries {
		row := []interface{}{
			e.key.name, e.key.category, e.key.size, e.key.color, e.key.body,
			e.key.waist, e.key.length, e.quantity, strings.Join(e.itemNumbers, ", "),
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
