package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

var ErrProductionOrderNotFound = errors.New("production order not found")

// ProductionRepository defines the interface for production order data access
type ProductionRepository interface {
	Create(ctx context.Context, order *domain.ProductionOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductionOrder, error)
	List(ctx context.Context) ([]*domain.ProductionOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, updatedBy string, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productionRepository struct {
	db *sql.DB
}

// NewProductionRepository creates a new instance of ProductionRepository
func NewProductionRepository(db *sql.DB) ProductionRepository {
	return &productionRepository{db: db}
}

const productionColumns = `id, product_id, product_name, product_category, product_size,
	product_color, quantity, status, notes, order_type, created_by, created_at, updated_at, updated_by`

func scanProductionOrder(row interface{ Scan(...interface{}) error }) (*domain.ProductionOrder, error) {
	o := &domain.ProductionOrder{}
	err := row.Scan(
		&o.ID,
		&o.ProductID,
		&o.ProductName,
		&o.ProductCategory,
		&o.ProductSize,
		&o.ProductColor,
		&o.Quantity,
		&o.Status,
		&o.Notes,
		&o.OrderType,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts a new production order
func (r *productionRepository) Create(ctx context.Context, order *domain.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (id, product_id, product_name, product_category,
			product_size, product_color, quantity, status, notes, order_type, created_by,
			created_at, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.ProductID,
		order.ProductName,
		order.ProductCategory,
		order.ProductSize,
		order.ProductColor,
		order.Quantity,
		order.Status,
		order.Notes,
		order.OrderType,
		order.CreatedBy,
		order.CreatedAt,
		order.UpdatedAt,
		order.UpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to create production order: %w", err)
	}

	return nil
}

// FindByID retrieves a production order by ID
func (r *productionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductionOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM production_orders WHERE id = $1`, productionColumns)

	order, err := scanProductionOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductionOrderNotFound
		}
		return nil, fmt.Errorf("failed to find production order by ID: %w", err)
	}

	return order, nil
}

// List retrieves every production order, newest first.
func (r *productionRepository) List(ctx context.Context) ([]*domain.ProductionOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM production_orders ORDER BY created_at DESC`, productionColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list production orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.ProductionOrder{}
	for rows.Next() {
		order, err := scanProductionOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan production order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating production orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves a production order through its workflow.
func (r *productionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE production_orders
		SET status = $2, updated_by = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update production order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductionOrderNotFound
	}

	return nil
}

// Delete removes a production order permanently.
func (r *productionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM production_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete production order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductionOrderNotFound
	}

	return nil
}
