package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/itemexpr"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

const (
	customerHistoryLimit = 10
	customerSearchLimit  = 10
	customerSearchMinLen = 2
)

var (
	ErrNoQuantity      = errors.New("item numbers describe no items")
	ErrNoSaleLines     = errors.New("order contains no valid items")
	ErrAlreadyReturned = errors.New("sale order is already returned")
)

// SingleSaleInput is one legacy single-product sale entry.
type SingleSaleInput struct {
	CustomerName      string
	CustomerAddress   string
	CustomerPhone     string
	ProductID         uuid.UUID
	ItemNumbers       string
	Size              string
	Color             string
	DeliveryCharge    decimal.Decimal
	EmergencyDelivery bool
	Notes             string
}

// SaleLineInput is one line of a consolidated multi-product order.
type SaleLineInput struct {
	ProductID   uuid.UUID
	ItemNumbers string
	Size        string
	Color       string
}

// ConsolidatedSaleInput is a multi-product order entered in one checkout.
type ConsolidatedSaleInput struct {
	CustomerName      string
	CustomerAddress   string
	CustomerPhone     string
	Lines             []SaleLineInput
	DeliveryCharge    decimal.Decimal
	EmergencyDelivery bool
	Notes             string
}

// CustomerHistory is the per-customer order summary.
type CustomerHistory struct {
	TotalOrders   int                 `json:"total_orders"`
	TotalReturned int                 `json:"total_returned"`
	LastOrderDate *time.Time          `json:"last_order_date,omitempty"`
	Orders        []*domain.SaleOrder `json:"orders"`
}

// ReturnedCustomer aggregates returns per customer.
type ReturnedCustomer struct {
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	ReturnCount   int        `json:"return_count"`
	LastReturnAt  *time.Time `json:"last_return_at,omitempty"`
}

// CustomerSuggestion is one autocomplete hit from past sales.
type CustomerSuggestion struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// SalesService defines the interface for sale order business logic
type SalesService interface {
	CreateSale(ctx context.Context, input SingleSaleInput, actor string) (*domain.SaleOrder, error)
	CreateConsolidatedSale(ctx context.Context, input ConsolidatedSaleInput, actor string) (*domain.SaleOrder, error)
	GetSale(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)
	ListGroups(ctx context.Context) ([]*domain.SaleGroup, error)
	MarkReturned(ctx context.Context, id uuid.UUID, actor string) (*domain.SaleOrder, error)
	ToggleEmergency(ctx context.Context, id uuid.UUID, actor string) (bool, error)
	ToggleDelivered(ctx context.Context, id uuid.UUID, actor string) (bool, error)
	CustomerHistory(ctx context.Context, name, phone string) (*CustomerHistory, error)
	ReturnedCustomers(ctx context.Context) ([]*ReturnedCustomer, error)
	SearchCustomers(ctx context.Context, query string) ([]*CustomerSuggestion, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	activityRepo repository.ActivityRepository
	grouper      Grouper
	cache        *cache.Cache
}

// NewSalesService creates a new instance of SalesService
func NewSalesService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityRepository,
	grouper Grouper,
	c *cache.Cache,
) SalesService {
	return &salesService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		activityRepo: activityRepo,
		grouper:      grouper,
		cache:        c,
	}
}

func (s *salesService) logActivity(ctx context.Context, action, details, actor string) {
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)
}

// orDefault applies a size/color override, falling back to the product value.
func orDefault(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// CreateSale records a legacy single-line sale with a full product snapshot.
func (s *salesService) CreateSale(ctx context.Context, input SingleSaleInput, actor string) (*domain.SaleOrder, error) {
	quantity := itemexpr.Parse(input.ItemNumbers)
	if quantity == 0 {
		return nil, ErrNoQuantity
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	productTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	productID := product.ID

	order := &domain.SaleOrder{
		ID:                uuid.New(),
		CustomerName:      input.CustomerName,
		CustomerAddress:   input.CustomerAddress,
		CustomerPhone:     input.CustomerPhone,
		ProductID:         &productID,
		ProductName:       product.Name,
		ProductCategory:   product.Category,
		ProductSize:       orDefault(input.Size, product.Size),
		ProductBodySize:   product.BodySize,
		ProductWaistSize:  product.WaistSize,
		ProductLength:     product.Length,
		ProductColor:      orDefault(input.Color, product.Color),
		ProductPrice:      product.Price,
		Quantity:          quantity,
		ItemNumbers:       input.ItemNumbers,
		ProductTotal:      productTotal,
		DeliveryCharge:    input.DeliveryCharge,
		TotalPrice:        productTotal.Add(input.DeliveryCharge),
		Status:            domain.SaleStatusCompleted,
		EmergencyDelivery: input.EmergencyDelivery,
		Notes:             input.Notes,
		SoldBy:            actor,
		CreatedAt:         time.Now(),
	}

	if err := s.saleRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeySalesOrders, cache.KeyProducts)
	s.logActivity(ctx, "Sale Completed",
		fmt.Sprintf("Sold %d x %s to %s", quantity, product.Name, input.CustomerName), actor)

	return order, nil
}

// CreateConsolidatedSale records one order holding every line of a
// multi-product checkout. Lines whose product cannot be resolved or whose
// item numbers describe nothing are dropped; an order with no surviving
// lines is rejected.
func (s *salesService) CreateConsolidatedSale(ctx context.Context, input ConsolidatedSaleInput, actor string) (*domain.SaleOrder, error) {
	items := []domain.SaleItem{}
	productTotal := decimal.Zero
	totalQuantity := 0

	for _, line := range input.Lines {
		quantity := itemexpr.Parse(line.ItemNumbers)
		if quantity == 0 {
			continue
		}

		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		itemTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
		items = append(items, domain.SaleItem{
			ProductID:        product.ID,
			ProductName:      product.Name,
			ProductCategory:  product.Category,
			ProductSize:      orDefault(line.Size, product.Size),
			ProductBodySize:  product.BodySize,
			ProductWaistSize: product.WaistSize,
			ProductLength:    product.Length,
			ProductColor:     orDefault(line.Color, product.Color),
			ProductPrice:     product.Price,
			ItemNumbers:      line.ItemNumbers,
			Quantity:         quantity,
			ItemTotal:        itemTotal,
		})
		productTotal = productTotal.Add(itemTotal)
		totalQuantity += quantity
	}

	if len(items) == 0 {
		return nil, ErrNoSaleLines
	}

	orderID := uuid.New()
	order := &domain.SaleOrder{
		ID:                uuid.New(),
		CustomerName:      input.CustomerName,
		CustomerAddress:   input.CustomerAddress,
		CustomerPhone:     input.CustomerPhone,
		OrderID:           &orderID,
		IsMultiple:        true,
		Items:             items,
		ProductTotal:      productTotal,
		DeliveryCharge:    input.DeliveryCharge,
		TotalPrice:        productTotal.Add(input.DeliveryCharge),
		TotalItems:        len(items),
		TotalQuantity:     totalQuantity,
		Status:            domain.SaleStatusCompleted,
		EmergencyDelivery: input.EmergencyDelivery,
		Notes:             input.Notes,
		SoldBy:            actor,
		CreatedAt:         time.Now(),
	}

	if err := s.saleRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeySalesOrders, cache.KeyProducts)
	s.logActivity(ctx, "Sale Completed",
		fmt.Sprintf("Sold %d items (%d pcs) to %s", len(items), totalQuantity, input.CustomerName), actor)

	return order, nil
}

// GetSale retrieves one sale order.
func (s *salesService) GetSale(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	return s.saleRepo.FindByID(ctx, id)
}

// ListGroups assembles all sales into per-customer receipts, newest first.
func (s *salesService) ListGroups(ctx context.Context) ([]*domain.SaleGroup, error) {
	cached, err := s.cache.Get(cache.KeySalesOrders, cache.DefaultTTL, func() (interface{}, error) {
		return s.saleRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return s.grouper.Group(cached.([]*domain.SaleOrder)), nil
}

// MarkReturned flips a completed sale to returned.
func (s *salesService) MarkReturned(ctx context.Context, id uuid.UUID, actor string) (*domain.SaleOrder, error) {
	order, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.SaleStatusReturned {
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	if err := s.saleRepo.MarkReturned(ctx, id, actor, now); err != nil {
		return nil, err
	}

	order.Status = domain.SaleStatusReturned
	order.ReturnedAt = &now
	order.ReturnedBy = actor
	order.UpdatedAt = &now
	order.UpdatedBy = actor

	s.cache.Invalidate(cache.KeySalesOrders)
	s.logActivity(ctx, "Sale Returned",
		fmt.Sprintf("Marked sale for %s as returned", order.CustomerName), actor)

	return order, nil
}

// ToggleEmergency flips the emergency-delivery flag, returning the new state.
func (s *salesService) ToggleEmergency(ctx context.Context, id uuid.UUID, actor string) (bool, error) {
	order, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !order.EmergencyDelivery
	if err := s.saleRepo.SetEmergency(ctx, id, next, actor, time.Now()); err != nil {
		return false, err
	}

	s.cache.Invalidate(cache.KeySalesOrders)
	s.logActivity(ctx, "Emergency Delivery Toggled",
		fmt.Sprintf("Set emergency delivery to %t for %s", next, order.CustomerName), actor)

	return next, nil
}

// ToggleDelivered flips the delivered flag, stamping or clearing delivered_at.
func (s *salesService) ToggleDelivered(ctx context.Context, id uuid.UUID, actor string) (bool, error) {
	order, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !order.Delivered
	var deliveredAt *time.Time
	if next {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.saleRepo.SetDelivered(ctx, id, next, deliveredAt, actor, time.Now()); err != nil {
		return false, err
	}

	s.cache.Invalidate(cache.KeySalesOrders)
	s.logActivity(ctx, "Delivery Status Toggled",
		fmt.Sprintf("Set delivered to %t for %s", next, order.CustomerName), actor)

	return next, nil
}

// CustomerHistory summarizes a customer's orders matched by name or phone.
func (s *salesService) CustomerHistory(ctx context.Context, name, phone string) (*CustomerHistory, error) {
	orders, err := s.saleRepo.ListByCustomer(ctx, name, phone)
	if err != nil {
		return nil, err
	}

	history := &CustomerHistory{TotalOrders: len(orders)}
	for _, order := range orders {
		if order.Status == domain.SaleStatusReturned {
			history.TotalReturned++
		}
		if history.LastOrderDate == nil || order.CreatedAt.After(*history.LastOrderDate) {
			t := order.CreatedAt
			history.LastOrderDate = &t
		}
	}

	// Newest first, capped.
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > customerHistoryLimit {
		orders = orders[:customerHistoryLimit]
	}
	history.Orders = orders

	return history, nil
}

// ReturnedCustomers aggregates returned orders per customer.
func (s *salesService) ReturnedCustomers(ctx context.Context) ([]*ReturnedCustomer, error) {
	orders, err := s.saleRepo.ListByStatus(ctx, domain.SaleStatusReturned)
	if err != nil {
		return nil, err
	}

	type key struct {
		name  string
		phone string
	}
	byCustomer := map[key]*ReturnedCustomer{}
	result := []*ReturnedCustomer{}

	for _, order := range orders {
		k := key{name: order.CustomerName, phone: order.CustomerPhone}
		entry, ok := byCustomer[k]
		if !ok {
			entry = &ReturnedCustomer{CustomerName: order.CustomerName, CustomerPhone: order.CustomerPhone}
			byCustomer[k] = entry
			result = append(result, entry)
		}
		entry.ReturnCount++
		if order.ReturnedAt != nil && (entry.LastReturnAt == nil || order.ReturnedAt.After(*entry.LastReturnAt)) {
			entry.LastReturnAt = order.ReturnedAt
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReturnCount > result[j].ReturnCount
	})

	return result, nil
}

// SearchCustomers suggests unique customer name+phone pairs from past sales
// matching the query. Queries shorter than two characters return nothing.
func (s *salesService) SearchCustomers(ctx context.Context, query string) ([]*CustomerSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < customerSearchMinLen {
		return []*CustomerSuggestion{}, nil
	}

	cached, err := s.cache.Get(cache.KeySalesOrders, cache.DefaultTTL, func() (interface{}, error) {
		return s.saleRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	orders := cached.([]*domain.SaleOrder)

	needle := strings.ToLower(query)
	type key struct {
		name  string
		phone string
	}
	seen := map[key]bool{}
	suggestions := []*CustomerSuggestion{}

	for _, order := range orders {
		if !strings.Contains(strings.ToLower(order.CustomerName), needle) &&
			!strings.Contains(order.CustomerPhone, needle) {
			continue
		}
		k := key{name: order.CustomerName, phone: order.CustomerPhone}
		if seen[k] {
			continue
		}
		seen[k] = true
		suggestions = append(suggestions, &CustomerSuggestion{
			Name:    order.CustomerName,
			Phone:   order.CustomerPhone,
			Address: order.CustomerAddress,
		})
		if len(suggestions) == customerSearchLimit {
			break
		}
	}

	return suggestions, nil
}
