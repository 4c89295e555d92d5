package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

var (
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrAttributeExists   = errors.New("attribute with this name already exists")
)

// AttributeRepository defines the interface for attribute data access. One
// implementation serves all three attribute kinds, each backed by its own table.
type AttributeRepository interface {
	Create(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error
	Update(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error
	Delete(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) error
	FindByID(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) (*domain.Attribute, error)
	FindByName(ctx context.Context, kind domain.AttributeKind, name string) (*domain.Attribute, error)
	List(ctx context.Context, kind domain.AttributeKind) ([]*domain.Attribute, error)
}

type attributeRepository struct {
	db *sql.DB
}

// NewAttributeRepository creates a new instance of AttributeRepository
func NewAttributeRepository(db *sql.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

// tableFor maps an attribute kind to its table. Table names never come from
// user input, only from this switch, so interpolation is safe.
func tableFor(kind domain.AttributeKind) (string, error) {
	switch kind {
	case domain.AttributeCategory:
		return "categories", nil
	case domain.AttributeSize:
		return "sizes", nil
	case domain.AttributeColor:
		return "colors", nil
	default:
		return "", fmt.Errorf("unknown attribute kind %q", kind)
	}
}

// Create inserts a new attribute, rejecting duplicate names within the kind.
func (r *attributeRepository) Create(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	existing, err := r.FindByName(ctx, kind, attr.Name)
	if err != nil && !errors.Is(err, ErrAttributeNotFound) {
		return err
	}
	if existing != nil {
		return ErrAttributeExists
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, table)

	_, err = r.db.ExecContext(ctx, query, attr.ID, attr.Name, attr.Description, attr.CreatedAt, attr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}

	return nil
}

// Update renames or re-describes an attribute.
func (r *attributeRepository) Update(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, table)

	result, err := r.db.ExecContext(ctx, query, attr.ID, attr.Name, attr.Description, attr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAttributeNotFound
	}

	return nil
}

// Delete removes an attribute. Product-reference checks happen in the service
// layer before this is called.
func (r *attributeRepository) Delete(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAttributeNotFound
	}

	return nil
}

// FindByID retrieves an attribute by ID
func (r *attributeRepository) FindByID(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) (*domain.Attribute, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, description, created_at, updated_at FROM %s WHERE id = $1`, table)

	attr := &domain.Attribute{}
	err = r.db.QueryRowContext(ctx, query, id).Scan(&attr.ID, &attr.Name, &attr.Description, &attr.CreatedAt, &attr.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("failed to find %s by ID: %w", kind, err)
	}

	return attr, nil
}

// FindByName retrieves an attribute by its exact name
func (r *attributeRepository) FindByName(ctx context.Context, kind domain.AttributeKind, name string) (*domain.Attribute, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, description, created_at, updated_at FROM %s WHERE name = $1`, table)

	attr := &domain.Attribute{}
	err = r.db.QueryRowContext(ctx, query, name).Scan(&attr.ID, &attr.Name, &attr.Description, &attr.CreatedAt, &attr.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("failed to find %s by name: %w", kind, err)
	}

	return attr, nil
}

// List retrieves every attribute of the kind, alphabetically.
func (r *attributeRepository) List(ctx context.Context, kind domain.AttributeKind) ([]*domain.Attribute, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, description, created_at, updated_at FROM %s ORDER BY name`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s attributes: %w", kind, err)
	}
	defer rows.Close()

	attrs := []*domain.Attribute{}
	for rows.Next() {
		attr := &domain.Attribute{}
		if err := rows.Scan(&attr.ID, &attr.Name, &attr.Description, &attr.CreatedAt, &attr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attrs = append(attrs, attr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attributes: %w", err)
	}

	return attrs, nil
}
