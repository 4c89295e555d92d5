package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

var ErrNoProductionLines = errors.New("production order contains no valid items")

// ProductionLineInput is one (product, quantity) pair of a production request.
type ProductionLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ProductionService defines the interface for production order business logic
type ProductionService interface {
	CreateOrders(ctx context.Context, lines []ProductionLineInput, notes, actor string) ([]*domain.ProductionOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.ProductionOrder, error)
	ListOrders(ctx context.Context) ([]*domain.ProductionOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, actor string) (*domain.ProductionOrder, error)
	DeleteOrder(ctx context.Context, id uuid.UUID, actor string) error
}

type productionService struct {
	productionRepo repository.ProductionRepository
	productRepo    repository.ProductRepository
	activityRepo   repository.ActivityRepository
	cache          *cache.Cache
}

// NewProductionService creates a new instance of ProductionService
func NewProductionService(
	productionRepo repository.ProductionRepository,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityRepository,
	c *cache.Cache,
) ProductionService {
	return &productionService{
		productionRepo: productionRepo,
		productRepo:    productRepo,
		activityRepo:   activityRepo,
		cache:          c,
	}
}

func (s *productionService) logActivity(ctx context.Context, action, details, actor string) {
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)
}

// CreateOrders records one production order per valid (product, quantity)
// line, snapshotting product attributes. Lines with unknown products or
// non-positive quantities are dropped.
func (s *productionService) CreateOrders(ctx context.Context, lines []ProductionLineInput, notes, actor string) ([]*domain.ProductionOrder, error) {
	orderType := "single"
	if len(lines) > 1 {
		orderType = "multiple"
	}

	created := []*domain.ProductionOrder{}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		now := time.Now()
		order := &domain.ProductionOrder{
			ID:              uuid.New(),
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductCategory: product.Category,
			ProductSize:     product.Size,
			ProductColor:    product.Color,
			Quantity:        line.Quantity,
			Status:          domain.ProductionStatusPending,
			Notes:           notes,
			OrderType:       orderType,
			CreatedBy:       actor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := s.productionRepo.Create(ctx, order); err != nil {
			return nil, err
		}
		created = append(created, order)
	}

	if len(created) == 0 {
		return nil, ErrNoProductionLines
	}

	s.cache.Invalidate(cache.KeyProductionOrders)
	s.logActivity(ctx, "Production Order Created",
		fmt.Sprintf("Created %d production orders", len(created)), actor)

	return created, nil
}

// GetOrder retrieves one production order.
func (s *productionService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.ProductionOrder, error) {
	return s.productionRepo.FindByID(ctx, id)
}

// ListOrders retrieves all production orders through the cache.
func (s *productionService) ListOrders(ctx context.Context) ([]*domain.ProductionOrder, error) {
	cached, err := s.cache.Get(cache.KeyProductionOrders, cache.DefaultTTL, func() (interface{}, error) {
		return s.productionRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.ProductionOrder), nil
}

// UpdateStatus moves an order through the production workflow.
func (s *productionService) UpdateStatus(ctx context.Context, id uuid.UUID, status, actor string) (*domain.ProductionOrder, error) {
	order, err := s.productionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.productionRepo.UpdateStatus(ctx, id, status, actor, now); err != nil {
		return nil, err
	}

	order.Status = status
	order.UpdatedBy = actor
	order.UpdatedAt = now

	s.cache.Invalidate(cache.KeyProductionOrders)
	s.logActivity(ctx, "Production Status Updated",
		fmt.Sprintf("Set %s to %s", order.ProductName, status), actor)

	return order, nil
}

// DeleteOrder removes a production order.
func (s *productionService) DeleteOrder(ctx context.Context, id uuid.UUID, actor string) error {
	order, err := s.productionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.KeyProductionOrders)
	s.logActivity(ctx, "Production Order Deleted",
		fmt.Sprintf("Deleted production order for %s", order.ProductName), actor)

	return nil
}
