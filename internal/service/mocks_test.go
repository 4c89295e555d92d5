package service

import (
	"context"
	"io"
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
	existing, exists := m.products[product.ID]
	if !exists {
		return repository.ErrProductNotFound
	}
	updated := *product
	updated.Barcode = existing.Barcode
	updated.QRCodeURL = existing.QRCodeURL
	m.products[product.ID] = &updated
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
	var oldest *domain.Product
	for _, p := range m.products {
		if p.Name != name {
			continue
		}
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) {
			oldest = p
		}
	}
	if oldest == nil {
		return nil, repository.ErrProductNotFound
	}
	return oldest, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
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

func (m *mockSaleRepository) sorted() []*domain.SaleOrder {
	orders := make([]*domain.SaleOrder, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders
}

func (m *mockSaleRepository) List(ctx context.Context) ([]*domain.SaleOrder, error) {
	return m.sorted(), nil
}

func (m *mockSaleRepository) ListByStatus(ctx context.Context, status string) ([]*domain.SaleOrder, error) {
	var orders []*domain.SaleOrder
	for _, o := range m.sorted() {
		if o.Status == status {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *mockSaleRepository) ListByCustomer(ctx context.Context, name, phone string) ([]*domain.SaleOrder, error) {
	var orders []*domain.SaleOrder
	for _, o := range m.sorted() {
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
	order.UpdatedBy = returnedBy
	order.UpdatedAt = &returnedAt
	return nil
}

func (m *mockSaleRepository) SetEmergency(ctx context.Context, id uuid.UUID, emergency bool, updatedBy string, updatedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrSaleNotFound
	}
	order.EmergencyDelivery = emergency
	order.UpdatedBy = updatedBy
	order.UpdatedAt = &updatedAt
	return nil
}

func (m *mockSaleRepository) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool, deliveredAt *time.Time, updatedBy string, updatedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrSaleNotFound
	}
	order.Delivered = delivered
	order.DeliveredAt = deliveredAt
	order.UpdatedBy = updatedBy
	order.UpdatedAt = &updatedAt
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
	activities := make([]*domain.Activity, len(m.activities))
	copy(activities, m.activities)
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
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

type mockAttributeRepository struct {
	attrs map[domain.AttributeKind]map[uuid.UUID]*domain.Attribute
}

func newMockAttributeRepository() *mockAttributeRepository {
	return &mockAttributeRepository{attrs: map[domain.AttributeKind]map[uuid.UUID]*domain.Attribute{
		domain.AttributeCategory: {},
		domain.AttributeSize:     {},
		domain.AttributeColor:    {},
	}}
}

func (m *mockAttributeRepository) Create(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error {
	for _, a := range m.attrs[kind] {
		if a.Name == attr.Name {
			return repository.ErrAttributeExists
		}
	}
	m.attrs[kind][attr.ID] = attr
	return nil
}

func (m *mockAttributeRepository) Update(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error {
	if _, exists := m.attrs[kind][attr.ID]; !exists {
		return repository.ErrAttributeNotFound
	}
	m.attrs[kind][attr.ID] = attr
	return nil
}

func (m *mockAttributeRepository) Delete(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) error {
	if _, exists := m.attrs[kind][id]; !exists {
		return repository.ErrAttributeNotFound
	}
	delete(m.attrs[kind], id)
	return nil
}

func (m *mockAttributeRepository) FindByID(ctx context.Context, kind domain.AttributeKind, id uuid.UUID) (*domain.Attribute, error) {
	attr, exists := m.attrs[kind][id]
	if !exists {
		return nil, repository.ErrAttributeNotFound
	}
	return attr, nil
}

func (m *mockAttributeRepository) FindByName(ctx context.Context, kind domain.AttributeKind, name string) (*domain.Attribute, error) {
	for _, a := range m.attrs[kind] {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, repository.ErrAttributeNotFound
}

func (m *mockAttributeRepository) List(ctx context.Context, kind domain.AttributeKind) ([]*domain.Attribute, error) {
	attrs := make([]*domain.Attribute, 0, len(m.attrs[kind]))
	for _, a := range m.attrs[kind] {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs, nil
}

type mockCustomerRepository struct {
	customers map[uuid.UUID]*domain.Customer
}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, exists := m.customers[id]
	if !exists {
		return nil, repository.ErrCustomerNotFound
	}
	return customer, nil
}

func (m *mockCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	customers := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	return customers, nil
}

type mockProductionRepository struct {
	orders map[uuid.UUID]*domain.ProductionOrder
}

func newMockProductionRepository() *mockProductionRepository {
	return &mockProductionRepository{orders: make(map[uuid.UUID]*domain.ProductionOrder)}
}

func (m *mockProductionRepository) Create(ctx context.Context, order *domain.ProductionOrder) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductionOrder, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrProductionOrderNotFound
	}
	return order, nil
}

func (m *mockProductionRepository) List(ctx context.Context) ([]*domain.ProductionOrder, error) {
	orders := make([]*domain.ProductionOrder, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockProductionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, updatedBy string, updatedAt time.Time) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrProductionOrderNotFound
	}
	order.Status = status
	order.UpdatedBy = updatedBy
	order.UpdatedAt = updatedAt
	return nil
}

func (m *mockProductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.orders[id]; !exists {
		return repository.ErrProductionOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockMaintenanceRepository struct {
	purges  int
	results map[string]interface{}
}

func newMockMaintenanceRepository() *mockMaintenanceRepository {
	results := make(map[string]interface{})
	for _, table := range repository.ResetTables {
		results[table] = int64(0)
	}
	return &mockMaintenanceRepository{results: results}
}

func (m *mockMaintenanceRepository) PurgeAll(ctx context.Context) map[string]interface{} {
	m.purges++
	return m.results
}

type mockObjectStore struct {
	uploads map[string]string
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{uploads: make(map[string]string)}
}

func (m *mockObjectStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.uploads[name] = contentType
	return "https://storage.test/" + name, nil
}

func (m *mockObjectStore) Close() error {
	return nil
}
