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
	ErrProductNotFound = errors.New("product not found")
	ErrBarcodeTaken    = errors.New("barcode already assigned to another product")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListMissingBarcode(ctx context.Context) ([]*domain.Product, error)
	SetBarcode(ctx context.Context, id uuid.UUID, barcode, qrCodeURL string) error
	CountReferencing(ctx context.Context, kind domain.AttributeKind, name string) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, category, size, color, price, body_size, waist_size,
	length, description, image_url, barcode, qr_code_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Size,
		&p.Color,
		&p.Price,
		&p.BodySize,
		&p.WaistSize,
		&p.Length,
		&p.Description,
		&p.ImageURL,
		&p.Barcode,
		&p.QRCodeURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, size, color, price, body_size, waist_size,
			length, description, image_url, barcode, qr_code_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Size,
		product.Color,
		product.Price,
		product.BodySize,
		product.WaistSize,
		product.Length,
		product.Description,
		product.ImageURL,
		product.Barcode,
		product.QRCodeURL,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product; the barcode is never touched here.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, size = $4, color = $5, price = $6, body_size = $7,
		    waist_size = $8, length = $9, description = $10, image_url = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Size,
		product.Color,
		product.Price,
		product.BodySize,
		product.WaistSize,
		product.Length,
		product.Description,
		product.ImageURL,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product permanently.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByBarcode retrieves a product by its barcode identifier
func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE barcode = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, barcode))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by barcode: %w", err)
	}

	return product, nil
}

// FindByName retrieves the first product with the given name. Used by the
// production spreadsheet import, which references products by name.
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE name = $1 ORDER BY created_at LIMIT 1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}

	return product, nil
}

// List retrieves every product, newest first.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListMissingBarcode retrieves products lacking a barcode or QR image URL,
// the candidates for the bulk backfill operation.
func (r *productRepository) ListMissingBarcode(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE barcode = '' OR qr_code_url = ''`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products missing barcodes: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// SetBarcode assigns a generated barcode and QR image URL to a product.
func (r *productRepository) SetBarcode(ctx context.Context, id uuid.UUID, barcode, qrCodeURL string) error {
	existing, err := r.FindByBarcode(ctx, barcode)
	if err != nil && !errors.Is(err, ErrProductNotFound) {
		return err
	}
	if existing != nil && existing.ID != id {
		return ErrBarcodeTaken
	}

	query := `
		UPDATE products
		SET barcode = $2, qr_code_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, barcode, qrCodeURL)
	if err != nil {
		return fmt.Errorf("failed to set barcode: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// CountReferencing counts products holding the attribute name in the column
// for the given kind. Attribute deletion is blocked while this is non-zero.
func (r *productRepository) CountReferencing(ctx context.Context, kind domain.AttributeKind, name string) (int, error) {
	var column string
	switch kind {
	case domain.AttributeCategory:
		column = "category"
	case domain.AttributeSize:
		column = "size"
	case domain.AttributeColor:
		column = "color"
	default:
		return 0, fmt.Errorf("unknown attribute kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM products WHERE %s = $1`, column)

	var count int
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products referencing %s %q: %w", kind, name, err)
	}

	return count, nil
}
