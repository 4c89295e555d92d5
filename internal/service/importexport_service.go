package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/barcode"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/excel"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

// dateFilterLayout is the format of the optional export date filter.
const dateFilterLayout = "2006-01-02"

var ErrBadDateFilter = errors.New("date filter must be YYYY-MM-DD")

// ImportExportService moves catalog, production and sales data through xlsx
// workbooks.
type ImportExportService interface {
	ImportProducts(ctx context.Context, r io.Reader, actor string) (int, error)
	ExportProducts(ctx context.Context) ([]byte, error)
	ImportProductionOrders(ctx context.Context, r io.Reader, actor string) (int, error)
	ExportProductionOrders(ctx context.Context, date string) ([]byte, error)
	ExportDeliveryManifest(ctx context.Context, date string) ([]byte, error)
	ExportReplenishment(ctx context.Context) ([]byte, error)
}

type importExportService struct {
	productRepo    repository.ProductRepository
	productionRepo repository.ProductionRepository
	saleRepo       repository.SaleRepository
	activityRepo   repository.ActivityRepository
	barcodes       *barcode.Generator
	cache          *cache.Cache
}

// NewImportExportService creates a new instance of ImportExportService
func NewImportExportService(
	productRepo repository.ProductRepository,
	productionRepo repository.ProductionRepository,
	saleRepo repository.SaleRepository,
	activityRepo repository.ActivityRepository,
	barcodes *barcode.Generator,
	c *cache.Cache,
) ImportExportService {
	return &importExportService{
		productRepo:    productRepo,
		productionRepo: productionRepo,
		saleRepo:       saleRepo,
		activityRepo:   activityRepo,
		barcodes:       barcodes,
		cache:          c,
	}
}

func (s *importExportService) logActivity(ctx context.Context, action, details, actor string) {
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)
}

// ImportProducts creates one product per parsed sheet row. Barcodes are
// always regenerated, never taken from the sheet.
func (s *importExportService) ImportProducts(ctx context.Context, r io.Reader, actor string) (int, error) {
	rows, err := excel.ParseProductRows(r)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		now := time.Now()
		product := &domain.Product{
			ID:          uuid.New(),
			Name:        row.Name,
			Category:    row.Category,
			Size:        row.Size,
			Color:       row.Color,
			Price:       row.Price,
			BodySize:    row.BodySize,
			WaistSize:   row.WaistSize,
			Length:      row.Length,
			Description: row.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		product.Barcode = barcode.NewIdentifier()
		qrURL, err := s.barcodes.Generate(ctx, product.Barcode)
		if err != nil {
			return imported, err
		}
		product.QRCodeURL = qrURL

		if err := s.productRepo.Create(ctx, product); err != nil {
			return imported, err
		}
		imported++
	}

	if imported > 0 {
		s.cache.Invalidate(cache.KeyProducts, cache.KeyDashboardStats)
		s.logActivity(ctx, "Excel Import", fmt.Sprintf("Imported %d products from Excel", imported), actor)
	}

	return imported, nil
}

// ExportProducts renders the whole catalog as an xlsx workbook.
func (s *importExportService) ExportProducts(ctx context.Context) ([]byte, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return excel.BuildProductWorkbook(products)
}

// ImportProductionOrders creates production orders from sheet rows. Rows
// naming unknown products or non-positive quantities are skipped.
func (s *importExportService) ImportProductionOrders(ctx context.Context, r io.Reader, actor string) (int, error) {
	rows, err := excel.ParseProductionRows(r)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}

		product, err := s.productRepo.FindByName(ctx, row.ProductName)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return imported, err
		}

		status := row.Status
		if status == "" {
			status = domain.ProductionStatusPending
		}

		now := time.Now()
		order := &domain.ProductionOrder{
			ID:              uuid.New(),
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductCategory: product.Category,
			ProductSize:     product.Size,
			ProductColor:    product.Color,
			Quantity:        row.Quantity,
			Status:          status,
			Notes:           row.Notes,
			OrderType:       "single",
			CreatedBy:       actor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := s.productionRepo.Create(ctx, order); err != nil {
			return imported, err
		}
		imported++
	}

	if imported > 0 {
		s.cache.Invalidate(cache.KeyProductionOrders)
		s.logActivity(ctx, "Excel Import", fmt.Sprintf("Imported %d production orders from Excel", imported), actor)
	}

	return imported, nil
}

// filterByDate keeps orders created on the given local date; an empty filter
// keeps everything.
func parseDateFilter(date string) (*time.Time, error) {
	if date == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateFilterLayout, date, time.Local)
	if err != nil {
		return nil, ErrBadDateFilter
	}
	return &day, nil
}

func sameDay(t time.Time, day time.Time) bool {
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ExportProductionOrders renders production orders, optionally only those
// created on one date (YYYY-MM-DD).
func (s *importExportService) ExportProductionOrders(ctx context.Context, date string) ([]byte, error) {
	day, err := parseDateFilter(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.productionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if day != nil {
		filtered := orders[:0]
		for _, order := range orders {
			if sameDay(order.CreatedAt, *day) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	return excel.BuildProductionWorkbook(orders)
}

// ExportDeliveryManifest renders the per-customer delivery sheet, optionally
// restricted to orders created on one date.
func (s *importExportService) ExportDeliveryManifest(ctx context.Context, date string) ([]byte, error) {
	day, err := parseDateFilter(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if day != nil {
		filtered := orders[:0]
		for _, order := range orders {
			if sameDay(order.CreatedAt, *day) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	return excel.BuildDeliveryManifest(orders)
}

// ExportReplenishment renders the sold-variant aggregate for restocking.
func (s *importExportService) ExportReplenishment(ctx context.Context) ([]byte, error) {
	orders, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return excel.BuildReplenishment(orders)
}
