package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale order status values.
const (
	SaleStatusCompleted = "completed"
	SaleStatusReturned  = "returned"
)

// SaleItem is one purchased line inside a consolidated order, carrying a full
// snapshot of the product at sale time.
type SaleItem struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductCategory  string          `json:"product_category"`
	ProductSize      string          `json:"product_size"`
	ProductBodySize  string          `json:"product_body_size"`
	ProductWaistSize string          `json:"product_waist_size"`
	ProductLength    string          `json:"product_length"`
	ProductColor     string          `json:"product_color"`
	ProductPrice     decimal.Decimal `json:"product_price"`
	ItemNumbers      string          `json:"item_numbers"`
	Quantity         int             `json:"quantity"`
	ItemTotal        decimal.Decimal `json:"item_total"`
	VariantID        string          `json:"variant_id,omitempty"`
}

// SaleOrder is either a legacy single-line sale (IsMultiple false, product
// snapshot fields populated) or a consolidated multi-line order (IsMultiple
// true, Items populated, OrderID set). Both live in the sales_orders table.
type SaleOrder struct {
	ID              uuid.UUID  `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address"`
	CustomerPhone   string     `json:"customer_phone"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	IsMultiple      bool       `json:"is_multiple_items"`
	Items           []SaleItem `json:"items,omitempty"`

	// Legacy single-line snapshot fields.
	ProductID        *uuid.UUID      `json:"product_id,omitempty"`
	ProductName      string          `json:"product_name,omitempty"`
	ProductCategory  string          `json:"product_category,omitempty"`
	ProductSize      string          `json:"product_size,omitempty"`
	ProductBodySize  string          `json:"product_body_size,omitempty"`
	ProductWaistSize string          `json:"product_waist_size,omitempty"`
	ProductLength    string          `json:"product_length,omitempty"`
	ProductColor     string          `json:"product_color,omitempty"`
	ProductPrice     decimal.Decimal `json:"product_price"`
	Quantity         int             `json:"quantity"`
	ItemNumbers      string          `json:"item_numbers,omitempty"`

	ProductTotal   decimal.Decimal `json:"product_total"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalItems     int             `json:"total_items,omitempty"`
	TotalQuantity  int             `json:"total_quantity,omitempty"`

	Status            string     `json:"status"`
	EmergencyDelivery bool       `json:"emergency_delivery"`
	Delivered         bool       `json:"delivered"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	ReturnedAt        *time.Time `json:"returned_at,omitempty"`
	ReturnedBy        string     `json:"returned_by,omitempty"`
	Notes             string     `json:"notes"`
	SoldBy            string     `json:"sold_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	UpdatedBy         string     `json:"updated_by,omitempty"`
}

// SaleGroup is one customer receipt assembled for the sales and delivery views.
type SaleGroup struct {
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	SoldBy        string       `json:"sold_by"`
	CreatedAt     time.Time    `json:"created_at"`
	Orders        []*SaleOrder `json:"items"`
}
