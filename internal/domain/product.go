package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents one catalog entry. Category, size and color are stored by
// name, denormalized, so sale records keep their historical attributes even when
// the referenced attribute is later renamed or removed.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Size        string          `json:"size" db:"size"`
	Color       string          `json:"color" db:"color"`
	Price       decimal.Decimal `json:"price" db:"price"`
	BodySize    string          `json:"body_size" db:"body_size"`
	WaistSize   string          `json:"waist_size" db:"waist_size"`
	Length      string          `json:"length" db:"length"`
	Description string          `json:"description" db:"description"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	Barcode     string          `json:"barcode" db:"barcode"`
	QRCodeURL   string          `json:"qr_code_url" db:"qr_code_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// AttributeKind selects one of the three product attribute tables.
type AttributeKind string

const (
	AttributeCategory AttributeKind = "category"
	AttributeSize     AttributeKind = "size"
	AttributeColor    AttributeKind = "color"
)

// Attribute is a named product attribute (category, size or color). The three
// kinds are structurally identical and share one repository.
type Attribute struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
