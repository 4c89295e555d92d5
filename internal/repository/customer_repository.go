package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer record
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, address, phone, email, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.CreatedBy,
		customer.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindByID retrieves a customer by ID
func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT id, name, address, phone, email, created_by, created_at FROM customers WHERE id = $1`

	customer := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.Phone,
		&customer.Email,
		&customer.CreatedBy,
		&customer.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}

	return customer, nil
}

// List retrieves every saved customer, newest first.
func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT id, name, address, phone, email, created_by, created_at FROM customers ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		customer := &domain.Customer{}
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Address,
			&customer.Phone,
			&customer.Email,
			&customer.CreatedBy,
			&customer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
