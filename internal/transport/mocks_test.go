package transport

import (
	"context"
	"sort"
	"time"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepository) ListMissingBarcode(ctx context.Context) ([]*domain.Product, error) {
	var missing []*domain.Product
	for _, p := range m.products {
		if p.Barcode == "" || p.QRCodeURL == "" {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

func (m *mockProductRepository) SetBarcode(ctx context.Context, id uuid.UUID, barcode, qrCodeURL string) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Barcode = barcode
	product.QRCodeURL = qrCodeURL
	return nil
}

func (m *mockProductRepository) CountReferencing(ctx context.Context, kind domain.AttributeKind, name string) (int, error) {
	count := 0
	for _, p := range m.products {
		switch kind {
		case domain.AttributeCategory:
			if p.Category == name {
				count++
			}
		case domain.AttributeSize:
			if p.Size == name {
				count++
			}
		case domain.AttributeColor:
			if p.Color == name {
				count++
			}
		}
	}
	return count, nil
}

type mockSaleRepository struct {
	orders map[uuid.UUID]*domain.SaleOrder
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{orders: make(map[uuid.UUID]*domain.SaleOrder)}
}

func (m *mockSaleRepository) Create(ctx context.Context, order *domain.SaleOrder) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrSaleNotFound
	}
	return order, nil
}

func (m *mockSaleRepository) List(ctx context.Context) ([]*domain.SaleOrder, error) {
	orders := make([]*domain.SaleOrder, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockSaleRepository) ListByStatus(ctx context.Context, status string) ([]*domain.SaleOrder, error) {
	var orders []*domain.SaleOrder
	for _, o := range m.orders {
		if o.Status == status {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *mockSaleRepository) ListByCustomer(ctx context.Context, name, phone string) ([]*domain.SaleOrder, error) {
	var orders []*domain.SaleOrder
	for _, o := range m.orders {
		if (name != "" && o.CustomerName == name) || (phone != "" && o.CustomerPhone == phone) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *mockSaleRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedBy string, returnedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrSaleNotFound
	}
	order.Status = domain.SaleStatusReturned
	order.ReturnedBy = returnedBy
	order.ReturnedAt = &returnedAt
	return nil
}

func (m *mockSaleRepository) SetEmergency(ctx context.Context, id uuid.UUID, emergency bool, updatedBy string, updatedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrSaleNotFound
	}
	order.EmergencyDelivery = emergency
	return nil
}

func (m *mockSaleRepository) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool, deliveredAt *time.Time, updatedBy string, updatedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrSaleNotFound
	}
	order.Delivered = delivered
	order.DeliveredAt = deliveredAt
	return nil
}

type mockActivityRepository struct {
	activities []*domain.Activity
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{}
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	m.activities = append(m.activities, activity)
	return nil
}

func (m *mockActivityRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	if len(m.activities) > limit {
		return m.activities[:limit], nil
	}
	return m.activities, nil
}

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrUserExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.ID]; !exists {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.users[id]; !exists {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	count := 0
	for _, u := range m.users {
		if u.Role == domain.RoleAdmin && u.Active {
			count++
		}
	}
	return count, nil
}
