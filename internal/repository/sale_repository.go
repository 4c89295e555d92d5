package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

var ErrSaleNotFound = errors.New("sale order not found")

// SaleRepository defines the interface for sale order data access
type SaleRepository interface {
	Create(ctx context.Context, order *domain.SaleOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)
	List(ctx context.Context) ([]*domain.SaleOrder, error)
	ListByStatus(ctx context.Context, status string) ([]*domain.SaleOrder, error)
	ListByCustomer(ctx context.Context, name, phone string) ([]*domain.SaleOrder, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnedBy string, returnedAt time.Time) error
	SetEmergency(ctx context.Context, id uuid.UUID, emergency bool, updatedBy string, updatedAt time.Time) error
	SetDelivered(ctx context.Context, id uuid.UUID, delivered bool, deliveredAt *time.Time, updatedBy string, updatedAt time.Time) error
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

const saleColumns = `id, customer_name, customer_address, customer_phone, order_id, is_multiple_items,
	items, product_id, product_name, product_category, product_size, product_body_size,
	product_waist_size, product_length, product_color, product_price, quantity, item_numbers,
	product_total, delivery_charge, total_price, total_items, total_quantity, status,
	emergency_delivery, delivered, delivered_at, returned_at, returned_by, notes, sold_by,
	created_at, updated_at, updated_by`

func scanSaleOrder(row interface{ Scan(...interface{}) error }) (*domain.SaleOrder, error) {
	o := &domain.SaleOrder{}
	var (
		orderID     sql.NullString
		productID   sql.NullString
		items       []byte
		deliveredAt sql.NullTime
		returnedAt  sql.NullTime
		updatedAt   sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerAddress,
		&o.CustomerPhone,
		&orderID,
		&o.IsMultiple,
		&items,
		&productID,
		&o.ProductName,
		&o.ProductCategory,
		&o.ProductSize,
		&o.ProductBodySize,
		&o.ProductWaistSize,
		&o.ProductLength,
		&o.ProductColor,
		&o.ProductPrice,
		&o.Quantity,
		&o.ItemNumbers,
		&o.ProductTotal,
		&o.DeliveryCharge,
		&o.TotalPrice,
		&o.TotalItems,
		&o.TotalQuantity,
		&o.Status,
		&o.EmergencyDelivery,
		&o.Delivered,
		&deliveredAt,
		&returnedAt,
		&o.ReturnedBy,
		&o.Notes,
		&o.SoldBy,
		&o.CreatedAt,
		&updatedAt,
		&o.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		id, err := uuid.Parse(orderID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id %q: %w", orderID.String, err)
		}
		o.OrderID = &id
	}
	if productID.Valid {
		id, err := uuid.Parse(productID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id %q: %w", productID.String, err)
		}
		o.ProductID = &id
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode sale items: %w", err)
		}
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		o.DeliveredAt = &t
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		o.ReturnedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		o.UpdatedAt = &t
	}

	return o, nil
}

// Create inserts a sale order. Consolidated orders carry their lines in the
// items JSONB column; legacy single-line orders leave it NULL.
func (r *saleRepository) Create(ctx context.Context, order *domain.SaleOrder) error {
	var items interface{}
	if order.IsMultiple {
		encoded, err := json.Marshal(order.Items)
		if err != nil {
			return fmt.Errorf("failed to encode sale items: %w", err)
		}
		items = encoded
	}

	var orderID interface{}
	if order.OrderID != nil {
		orderID = *order.OrderID
	}
	var productID interface{}
	if order.ProductID != nil {
		productID = *order.ProductID
	}

	query := `
		INSERT INTO sales_orders (id, customer_name, customer_address, customer_phone, order_id,
			is_multiple_items, items, product_id, product_name, product_category, product_size,
			product_body_size, product_waist_size, product_length, product_color, product_price,
			quantity, item_numbers, product_total, delivery_charge, total_price, total_items,
			total_quantity, status, emergency_delivery, delivered, notes, sold_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerName,
		order.CustomerAddress,
		order.CustomerPhone,
		orderID,
		order.IsMultiple,
		items,
		productID,
		order.ProductName,
		order.ProductCategory,
		order.ProductSize,
		order.ProductBodySize,
		order.ProductWaistSize,
		order.ProductLength,
		order.ProductColor,
		order.ProductPrice,
		order.Quantity,
		order.ItemNumbers,
		order.ProductTotal,
		order.DeliveryCharge,
		order.TotalPrice,
		order.TotalItems,
		order.TotalQuantity,
		order.Status,
		order.EmergencyDelivery,
		order.Delivered,
		order.Notes,
		order.SoldBy,
		order.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create sale order: %w", err)
	}

	return nil
}

// FindByID retrieves a sale order by ID
func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_orders WHERE id = $1`, saleColumns)

	order, err := scanSaleOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale order by ID: %w", err)
	}

	return order, nil
}

func (r *saleRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.SaleOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.SaleOrder{}
	for rows.Next() {
		order, err := scanSaleOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale orders: %w", err)
	}

	return orders, nil
}

// List retrieves every sale order, oldest first. The ascending order keeps
// receipt grouping deterministic regardless of insertion interleaving.
func (r *saleRepository) List(ctx context.Context) ([]*domain.SaleOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_orders ORDER BY created_at ASC, id ASC`, saleColumns)
	return r.queryOrders(ctx, query)
}

// ListByStatus retrieves sale orders with the given status, oldest first.
func (r *saleRepository) ListByStatus(ctx context.Context, status string) ([]*domain.SaleOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_orders WHERE status = $1 ORDER BY created_at ASC, id ASC`, saleColumns)
	return r.queryOrders(ctx, query, status)
}

// ListByCustomer retrieves sale orders matching the customer name or phone.
// Either side may be empty; empty values never match.
func (r *saleRepository) ListByCustomer(ctx context.Context, name, phone string) ([]*domain.SaleOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales_orders
		WHERE (customer_name = $1 AND $1 <> '') OR (customer_phone = $2 AND $2 <> '')
		ORDER BY created_at ASC, id ASC
	`, saleColumns)
	return r.queryOrders(ctx, query, name, phone)
}

// MarkReturned flips a completed order to returned, recording who and when.
func (r *saleRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedBy string, returnedAt time.Time) error {
	query := `
		UPDATE sales_orders
		SET status = $2, returned_at = $3, returned_by = $4, updated_at = $3, updated_by = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.SaleStatusReturned, returnedAt, returnedBy)
	if err != nil {
		return fmt.Errorf("failed to mark sale order returned: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// SetEmergency sets the emergency-delivery flag on an order.
func (r *saleRepository) SetEmergency(ctx context.Context, id uuid.UUID, emergency bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE sales_orders
		SET emergency_delivery = $2, updated_at = $3, updated_by = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, emergency, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set emergency delivery: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// SetDelivered sets the delivered flag; deliveredAt is NULL when un-delivering.
func (r *saleRepository) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool, deliveredAt *time.Time, updatedBy string, updatedAt time.Time) error {
	var ts interface{}
	if deliveredAt != nil {
		ts = *deliveredAt
	}

	query := `
		UPDATE sales_orders
		SET delivered = $2, delivered_at = $3, updated_at = $4, updated_by = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delivered, ts, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set delivered: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}
