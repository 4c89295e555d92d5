package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

// CustomerInput carries the user-editable customer fields.
type CustomerInput struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// CustomerService defines the interface for saved-customer business logic
type CustomerService interface {
	AddCustomer(ctx context.Context, input CustomerInput, actor string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	activityRepo repository.ActivityRepository
	cache        *cache.Cache
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
	c *cache.Cache,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		cache:        c,
	}
}

// AddCustomer saves a customer record. No uniqueness is enforced.
func (s *customerService) AddCustomer(ctx context.Context, input CustomerInput, actor string) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:        uuid.New(),
		Name:      input.Name,
		Address:   input.Address,
		Phone:     input.Phone,
		Email:     input.Email,
		CreatedBy: actor,
		CreatedAt: time.Now(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyCustomers)

	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    "Customer Added",
		Details:   fmt.Sprintf("Added customer: %s", customer.Name),
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)

	return customer, nil
}

// ListCustomers retrieves all saved customers through the cache.
func (s *customerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	cached, err := s.cache.Get(cache.KeyCustomers, cache.DefaultTTL, func() (interface{}, error) {
		return s.customerRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.Customer), nil
}
