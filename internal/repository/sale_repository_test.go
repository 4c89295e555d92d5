package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newLegacySale(name, phone string, createdAt time.Time) *domain.SaleOrder {
	productID := uuid.New()
	return &domain.SaleOrder{
		ID:              uuid.New(),
		CustomerName:    name,
		CustomerAddress: "12 Test Road",
		CustomerPhone:   phone,
		ProductID:       &productID,
		ProductName:     "Linen Shirt",
		ProductCategory: "Shirt",
		ProductSize:     "M",
		ProductColor:    "White",
		ProductPrice:    decimal.NewFromInt(850),
		Quantity:        2,
		ItemNumbers:     "10-11",
		ProductTotal:    decimal.NewFromInt(1700),
		DeliveryCharge:  decimal.NewFromInt(60),
		TotalPrice:      decimal.NewFromInt(1760),
		Status:          domain.SaleStatusCompleted,
		SoldBy:          "admin",
		CreatedAt:       createdAt,
	}
}

func TestSaleRepository_ConsolidatedItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	orderID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	order := &domain.SaleOrder{
		ID:            uuid.New(),
		CustomerName:  "Consolidated Customer",
		CustomerPhone: "01700000001",
		OrderID:       &orderID,
		IsMultiple:    true,
		Items: []domain.SaleItem{
			{
				ProductID:    first,
				ProductName:  "Polo Shirt",
				ProductSize:  "L",
				ProductColor: "Navy",
				ProductPrice: decimal.NewFromInt(600),
				ItemNumbers:  "1-3",
				Quantity:     3,
				ItemTotal:    decimal.NewFromInt(1800),
			},
			{
				ProductID:    second,
				ProductName:  "Chinos",
				ProductSize:  "32",
				ProductColor: "Khaki",
				ProductPrice: decimal.NewFromInt(1200),
				ItemNumbers:  "5",
				Quantity:     1,
				ItemTotal:    decimal.NewFromInt(1200),
			},
		},
		ProductTotal:   decimal.NewFromInt(3000),
		DeliveryCharge: decimal.NewFromInt(100),
		TotalPrice:     decimal.NewFromInt(3100),
		TotalItems:     2,
		TotalQuantity:  4,
		Status:         domain.SaleStatusCompleted,
		SoldBy:         "manager",
		CreatedAt:      time.Now().UTC(),
	}

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if !retrieved.IsMultiple {
		t.Fatal("expected consolidated order")
	}
	if retrieved.OrderID == nil || *retrieved.OrderID != orderID {
		t.Fatalf("expected order_id %s, got %v", orderID, retrieved.OrderID)
	}
	if len(retrieved.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(retrieved.Items))
	}
	if retrieved.Items[0].ProductID != first || retrieved.Items[1].ProductID != second {
		t.Error("item product ids did not survive the round trip")
	}
	if retrieved.Items[0].Quantity != 3 || retrieved.Items[1].Quantity != 1 {
		t.Error("item quantities did not survive the round trip")
	}
	if !retrieved.Items[0].ItemTotal.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("expected item total 1800, got %s", retrieved.Items[0].ItemTotal)
	}
	if retrieved.Items[1].ItemNumbers != "5" {
		t.Errorf("expected item numbers preserved, got %q", retrieved.Items[1].ItemNumbers)
	}
	if !retrieved.TotalPrice.Equal(order.TotalPrice) {
		t.Errorf("expected total %s, got %s", order.TotalPrice, retrieved.TotalPrice)
	}
}

func TestSaleRepository_LegacySaleHasNoItems(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	order := newLegacySale("Legacy Customer", "01700000002", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if retrieved.IsMultiple {
		t.Error("legacy sale must not be flagged consolidated")
	}
	if retrieved.OrderID != nil {
		t.Errorf("legacy sale must have nil order_id, got %v", retrieved.OrderID)
	}
	if len(retrieved.Items) != 0 {
		t.Errorf("legacy sale must have no items, got %d", len(retrieved.Items))
	}
	if retrieved.ProductID == nil || *retrieved.ProductID != *order.ProductID {
		t.Error("legacy product snapshot lost")
	}
	if retrieved.ItemNumbers != "10-11" {
		t.Errorf("expected item numbers preserved, got %q", retrieved.ItemNumbers)
	}
}

func TestSaleRepository_ListAscendingByCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	base := time.Now().UTC()
	newest := newLegacySale("Order Customer", "01700000003", base)
	oldest := newLegacySale("Order Customer", "01700000003", base.Add(-2*time.Hour))
	middle := newLegacySale("Order Customer", "01700000003", base.Add(-time.Hour))

	for _, o := range []*domain.SaleOrder{newest, oldest, middle} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	orders, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var lastSeen time.Time
	for _, o := range orders {
		if o.CreatedAt.Before(lastSeen) {
			t.Fatalf("orders not in ascending created_at order: %s after %s", o.CreatedAt, lastSeen)
		}
		lastSeen = o.CreatedAt
	}
}

func TestSaleRepository_ListByCustomerMatchesNameOrPhone(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	suffix := uuid.New().String()[:8]
	name := "History Customer " + suffix
	phone := "018" + suffix

	byName := newLegacySale(name, "000", time.Now().UTC())
	byPhone := newLegacySale("Someone Else", phone, time.Now().UTC())
	unrelated := newLegacySale("Unrelated "+suffix, "999", time.Now().UTC())

	for _, o := range []*domain.SaleOrder{byName, byPhone, unrelated} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	orders, err := repo.ListByCustomer(ctx, name, phone)
	if err != nil {
		t.Fatalf("ListByCustomer failed: %v", err)
	}

	got := map[uuid.UUID]bool{}
	for _, o := range orders {
		got[o.ID] = true
	}
	if !got[byName.ID] {
		t.Error("expected order matched by name")
	}
	if !got[byPhone.ID] {
		t.Error("expected order matched by phone")
	}
	if got[unrelated.ID] {
		t.Error("unrelated order must not match")
	}
}

func TestSaleRepository_ListByCustomerIgnoresEmptyFields(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	anon := newLegacySale("", "", time.Now().UTC())
	if err := repo.Create(ctx, anon); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	orders, err := repo.ListByCustomer(ctx, "", "")
	if err != nil {
		t.Fatalf("ListByCustomer failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("empty name and phone must match nothing, got %d orders", len(orders))
	}
}

func TestSaleRepository_MarkReturned(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	order := newLegacySale("Return Customer", "01700000004", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	returnedAt := time.Now().UTC()
	if err := repo.MarkReturned(ctx, order.ID, "staff1", returnedAt); err != nil {
		t.Fatalf("MarkReturned failed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if retrieved.Status != domain.SaleStatusReturned {
		t.Errorf("expected status returned, got %q", retrieved.Status)
	}
	if retrieved.ReturnedAt == nil {
		t.Error("expected returned_at to be set")
	}
	if retrieved.ReturnedBy != "staff1" {
		t.Errorf("expected returned_by staff1, got %q", retrieved.ReturnedBy)
	}

	returned, err := repo.ListByStatus(ctx, domain.SaleStatusReturned)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	found := false
	for _, o := range returned {
		if o.ID == order.ID {
			found = true
		}
	}
	if !found {
		t.Error("returned order missing from status listing")
	}

	if err := repo.MarkReturned(ctx, uuid.New(), "staff1", returnedAt); err != ErrSaleNotFound {
		t.Errorf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestSaleRepository_DeliveryToggles(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(testDB)

	order := newLegacySale("Delivery Customer", "01700000005", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetEmergency(ctx, order.ID, true, "admin", time.Now().UTC()); err != nil {
		t.Fatalf("SetEmergency failed: %v", err)
	}

	deliveredAt := time.Now().UTC()
	if err := repo.SetDelivered(ctx, order.ID, true, &deliveredAt, "admin", time.Now().UTC()); err != nil {
		t.Fatalf("SetDelivered failed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !retrieved.EmergencyDelivery {
		t.Error("expected emergency flag set")
	}
	if !retrieved.Delivered || retrieved.DeliveredAt == nil {
		t.Error("expected delivered flag and timestamp set")
	}
	if retrieved.UpdatedBy != "admin" {
		t.Errorf("expected updated_by recorded, got %q", retrieved.UpdatedBy)
	}

	if err := repo.SetDelivered(ctx, order.ID, false, nil, "admin", time.Now().UTC()); err != nil {
		t.Fatalf("SetDelivered failed: %v", err)
	}
	retrieved, err = repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if retrieved.Delivered || retrieved.DeliveredAt != nil {
		t.Error("expected delivered flag and timestamp cleared")
	}
}
