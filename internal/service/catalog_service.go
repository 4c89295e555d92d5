package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/barcode"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/storage"
)

const recentActivityLimit = 10

var (
	ErrUnsupportedImageType = errors.New("unsupported image file type")
	ErrAttributeInUse       = errors.New("attribute is referenced by existing products")
)

// ImageUpload is an uploaded product photo.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductInput carries the user-editable product fields.
type ProductInput struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Price       decimal.Decimal
	BodySize    string
	WaistSize   string
	Length      string
	Description string
}

// DashboardStats is the landing-page aggregate.
type DashboardStats struct {
	TotalProducts int             `json:"total_products"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// CatalogService defines the interface for product and attribute business logic
type CatalogService interface {
	AddProduct(ctx context.Context, input ProductInput, image *ImageUpload, actor string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput, image *ImageUpload, actor string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, code string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	BackfillBarcodes(ctx context.Context, actor string) (int, error)

	AddAttribute(ctx context.Context, kind domain.AttributeKind, name, description, actor string) (*domain.Attribute, error)
	UpdateAttribute(ctx context.Context, kind domain.AttributeKind, id uuid.UUID, name, description, actor string) (*domain.Attribute, error)
	DeleteAttribute(ctx context.Context, kind domain.AttributeKind, id uuid.UUID, actor string) error
	ListAttributes(ctx context.Context, kind domain.AttributeKind) ([]*domain.Attribute, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
	RecentActivities(ctx context.Context) ([]*domain.Activity, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	attributeRepo repository.AttributeRepository
	activityRepo  repository.ActivityRepository
	store         storage.ObjectStore
	barcodes      *barcode.Generator
	cache         *cache.Cache
	imagePrefix   string
	allowedExts   []string
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	attributeRepo repository.AttributeRepository,
	activityRepo repository.ActivityRepository,
	store storage.ObjectStore,
	barcodes *barcode.Generator,
	c *cache.Cache,
	imagePrefix string,
	allowedExts []string,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		activityRepo:  activityRepo,
		store:         store,
		barcodes:      barcodes,
		cache:         c,
		imagePrefix:   imagePrefix,
		allowedExts:   allowedExts,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func (s *catalogService) imageAllowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range s.allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// uploadImage stores a product photo under a uuid-prefixed sanitized name and
// returns its public URL.
func (s *catalogService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if !s.imageAllowed(image.Filename) {
		return "", ErrUnsupportedImageType
	}

	name := fmt.Sprintf("%s/%s_%s", s.imagePrefix, uuid.New().String(), sanitizeFilename(image.Filename))
	contentType := image.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(image.Filename))
	}

	url, err := s.store.Upload(ctx, name, contentType, image.Body)
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}
	return url, nil
}

// logActivity appends an audit record. Best effort: a failed append never
// fails the operation that triggered it.
func (s *catalogService) logActivity(ctx context.Context, action, details, actor string) {
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)
}

// AddProduct validates, uploads the optional image, assigns a barcode with a
// QR image, and persists the product. An upload failure aborts the save.
func (s *catalogService) AddProduct(ctx context.Context, input ProductInput, image *ImageUpload, actor string) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Category:    input.Category,
		Size:        input.Size,
		Color:       input.Color,
		Price:       input.Price,
		BodySize:    input.BodySize,
		WaistSize:   input.WaistSize,
		Length:      input.Length,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	product.Barcode = barcode.NewIdentifier()
	qrURL, err := s.barcodes.Generate(ctx, product.Barcode)
	if err != nil {
		return nil, err
	}
	product.QRCodeURL = qrURL

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyProducts, cache.KeyDashboardStats)
	s.logActivity(ctx, "Product Added", fmt.Sprintf("Added product: %s", product.Name), actor)

	return product, nil
}

// UpdateProduct rewrites the editable fields; the barcode is never regenerated.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput, image *ImageUpload, actor string) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Category = input.Category
	product.Size = input.Size
	product.Color = input.Color
	product.Price = input.Price
	product.BodySize = input.BodySize
	product.WaistSize = input.WaistSize
	product.Length = input.Length
	product.Description = input.Description
	product.UpdatedAt = time.Now()

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyProducts, cache.KeyDashboardStats)
	s.logActivity(ctx, "Product Updated", fmt.Sprintf("Updated product: %s", product.Name), actor)

	return product, nil
}

// DeleteProduct removes a product permanently. The stored image and QR object
// are left behind; object storage is write-once for this application.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.KeyProducts, cache.KeyDashboardStats)
	s.logActivity(ctx, "Product Deleted", fmt.Sprintf("Deleted product: %s", product.Name), actor)

	return nil
}

// GetProduct retrieves one product by ID.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// GetProductByBarcode retrieves one product by its scanned barcode.
func (s *catalogService) GetProductByBarcode(ctx context.Context, code string) (*domain.Product, error) {
	return s.productRepo.FindByBarcode(ctx, code)
}

// ListProducts retrieves all products through the cache.
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	cached, err := s.cache.Get(cache.KeyProducts, cache.DefaultTTL, func() (interface{}, error) {
		return s.productRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.Product), nil
}

// BackfillBarcodes assigns barcodes and QR images to every product missing
// either, returning the number updated.
func (s *catalogService) BackfillBarcodes(ctx context.Context, actor string) (int, error) {
	missing, err := s.productRepo.ListMissingBarcode(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, product := range missing {
		code := product.Barcode
		if code == "" {
			code = barcode.NewIdentifier()
		}
		qrURL, err := s.barcodes.Generate(ctx, code)
		if err != nil {
			return updated, err
		}
		if err := s.productRepo.SetBarcode(ctx, product.ID, code, qrURL); err != nil {
			return updated, err
		}
		updated++
	}

	if updated > 0 {
		s.cache.Invalidate(cache.KeyProducts)
		s.logActivity(ctx, "Bulk QR Generation", fmt.Sprintf("Generated QR codes for %d products", updated), actor)
	}

	return updated, nil
}

func cacheKeyFor(kind domain.AttributeKind) string {
	switch kind {
	case domain.AttributeCategory:
		return cache.KeyCategories
	case domain.AttributeSize:
		return cache.KeySizes
	default:
		return cache.KeyColors
	}
}

// AddAttribute creates a category, size or color, rejecting duplicate names.
func (s *catalogService) AddAttribute(ctx context.Context, kind domain.AttributeKind, name, description, actor string) (*domain.Attribute, error) {
	now := time.Now()
	attr := &domain.Attribute{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.attributeRepo.Create(ctx, kind, attr); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cacheKeyFor(kind))
	s.logActivity(ctx, attributeAction(kind, "Added"), fmt.Sprintf("Added %s: %s", kind, name), actor)

	return attr, nil
}

// UpdateAttribute renames or re-describes an attribute.
func (s *catalogService) UpdateAttribute(ctx context.Context, kind domain.AttributeKind, id uuid.UUID, name, description, actor string) (*domain.Attribute, error) {
	attr, err := s.attributeRepo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	attr.Name = name
	attr.Description = description
	attr.UpdatedAt = time.Now()

	if err := s.attributeRepo.Update(ctx, kind, attr); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cacheKeyFor(kind))
	s.logActivity(ctx, attributeAction(kind, "Updated"), fmt.Sprintf("Updated %s: %s", kind, name), actor)

	return attr, nil
}

// DeleteAttribute removes an attribute unless any product still references
// its name.
func (s *catalogService) DeleteAttribute(ctx context.Context, kind domain.AttributeKind, id uuid.UUID, actor string) error {
	attr, err := s.attributeRepo.FindByID(ctx, kind, id)
	if err != nil {
		return err
	}

	referencing, err := s.productRepo.CountReferencing(ctx, kind, attr.Name)
	if err != nil {
		return err
	}
	if referencing > 0 {
		return fmt.Errorf("%w: %d products use %s %q", ErrAttributeInUse, referencing, kind, attr.Name)
	}

	if err := s.attributeRepo.Delete(ctx, kind, id); err != nil {
		return err
	}

	s.cache.Invalidate(cacheKeyFor(kind))
	s.logActivity(ctx, attributeAction(kind, "Deleted"), fmt.Sprintf("Deleted %s: %s", kind, attr.Name), actor)

	return nil
}

// ListAttributes retrieves every attribute of one kind through the cache.
func (s *catalogService) ListAttributes(ctx context.Context, kind domain.AttributeKind) ([]*domain.Attribute, error) {
	cached, err := s.cache.Get(cacheKeyFor(kind), cache.DefaultTTL, func() (interface{}, error) {
		return s.attributeRepo.List(ctx, kind)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.Attribute), nil
}

func attributeAction(kind domain.AttributeKind, verb string) string {
	switch kind {
	case domain.AttributeCategory:
		return "Category " + verb
	case domain.AttributeSize:
		return "Size " + verb
	default:
		return "Color " + verb
	}
}

// DashboardStats computes the cached landing-page aggregate.
func (s *catalogService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	cached, err := s.cache.Get(cache.KeyDashboardStats, cache.QuickTTL, func() (interface{}, error) {
		products, err := s.productRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}
		return &DashboardStats{TotalProducts: len(products), TotalValue: total}, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.(*DashboardStats), nil
}

// RecentActivities retrieves the latest audit records through the cache.
func (s *catalogService) RecentActivities(ctx context.Context) ([]*domain.Activity, error) {
	cached, err := s.cache.Get(cache.KeyRecentActivities, cache.QuickTTL, func() (interface{}, error) {
		return s.activityRepo.ListRecent(ctx, recentActivityLimit)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.Activity), nil
}
