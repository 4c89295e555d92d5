package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conventional production order statuses. The column is free text, these are
// the values the UI offers.
const (
	ProductionStatusPending    = "pending"
	ProductionStatusInProgress = "in-progress"
	ProductionStatusCompleted  = "completed"
)

// ProductionOrder asks the factory to produce a quantity of one product. The
// product attributes are snapshotted at creation time.
type ProductionOrder struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ProductID       uuid.UUID  `json:"product_id" db:"product_id"`
	ProductName     string     `json:"product_name" db:"product_name"`
	ProductCategory string     `json:"product_category" db:"product_category"`
	ProductSize     string     `json:"product_size" db:"product_size"`
	ProductColor    string     `json:"product_color" db:"product_color"`
	Quantity        int        `json:"quantity" db:"quantity"`
	Status          string     `json:"status" db:"status"`
	Notes           string     `json:"notes" db:"notes"`
	OrderType       string     `json:"order_type" db:"order_type"`
	CreatedBy       string     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedBy       string     `json:"updated_by,omitempty" db:"updated_by"`
}
