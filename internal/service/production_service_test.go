package service

import (
	"context"
	"testing"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"

	"github.com/google/uuid"
)

func newProductionFixture() (ProductionService, *mockProductionRepository, *mockProductRepository) {
	productionRepo := newMockProductionRepository()
	productRepo := newMockProductRepository()
	svc := NewProductionService(productionRepo, productRepo, newMockActivityRepository(), cache.New())
	return svc, productionRepo, productRepo
}

func TestCreateOrders_OnePerLine(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo := newProductionFixture()

	first := seedProduct(productRepo, 100)
	second := seedProduct(productRepo, 200)

	orders, err := svc.CreateOrders(ctx, []ProductionLineInput{
		{ProductID: first.ID, Quantity: 10},
		{ProductID: second.ID, Quantity: 20},
	}, "for eid stock", "manager")
	if err != nil {
		t.Fatalf("CreateOrders failed: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o.OrderType != "multiple" {
			t.Errorf("expected order type multiple, got %q", o.OrderType)
		}
		if o.Status != domain.ProductionStatusPending {
			t.Errorf("expected pending status, got %q", o.Status)
		}
		if o.Notes != "for eid stock" {
			t.Errorf("expected shared notes, got %q", o.Notes)
		}
		if o.CreatedBy != "manager" {
			t.Errorf("expected creator recorded, got %q", o.CreatedBy)
		}
	}
	if orders[0].ProductName != first.Name || orders[0].ProductCategory != first.Category {
		t.Error("product snapshot lost on first line")
	}
}

func TestCreateOrders_SingleLineType(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo := newProductionFixture()
	product := seedProduct(productRepo, 100)

	orders, err := svc.CreateOrders(ctx, []ProductionLineInput{
		{ProductID: product.ID, Quantity: 5},
	}, "", "manager")
	if err != nil {
		t.Fatalf("CreateOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderType != "single" {
		t.Errorf("expected one single-type order, got %+v", orders)
	}
}

func TestCreateOrders_DropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo := newProductionFixture()
	product := seedProduct(productRepo, 100)

	orders, err := svc.CreateOrders(ctx, []ProductionLineInput{
		{ProductID: product.ID, Quantity: 5},
		{ProductID: product.ID, Quantity: 0},
		{ProductID: uuid.New(), Quantity: 3},
	}, "", "manager")
	if err != nil {
		t.Fatalf("CreateOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("expected 1 surviving order, got %d", len(orders))
	}

	if _, err := svc.CreateOrders(ctx, []ProductionLineInput{
		{ProductID: uuid.New(), Quantity: 1},
	}, "", "manager"); err != ErrNoProductionLines {
		t.Errorf("expected ErrNoProductionLines, got %v", err)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, productionRepo, productRepo := newProductionFixture()
	product := seedProduct(productRepo, 100)

	orders, err := svc.CreateOrders(ctx, []ProductionLineInput{
		{ProductID: product.ID, Quantity: 5},
	}, "", "manager")
	if err != nil {
		t.Fatalf("CreateOrders failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, orders[0].ID, domain.ProductionStatusInProgress, "admin")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != domain.ProductionStatusInProgress || updated.UpdatedBy != "admin" {
		t.Errorf("status change not reflected: %+v", updated)
	}

	if err := svc.DeleteOrder(ctx, orders[0].ID, "admin"); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := productionRepo.FindByID(ctx, orders[0].ID); err == nil {
		t.Error("expected order gone after delete")
	}
}

func TestCustomerService_AddAndList(t *testing.T) {
	ctx := context.Background()
	customerRepo := newMockCustomerRepository()
	svc := NewCustomerService(customerRepo, newMockActivityRepository(), cache.New())

	customer, err := svc.AddCustomer(ctx, CustomerInput{
		Name:    "Walk-in Customer",
		Address: "7 Bazar Lane",
		Phone:   "01611111111",
		Email:   "walkin@example.com",
	}, "staff1")
	if err != nil {
		t.Fatalf("AddCustomer failed: %v", err)
	}
	if customer.CreatedBy != "staff1" {
		t.Errorf("expected creator recorded, got %q", customer.CreatedBy)
	}

	customers, err := svc.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 1 || customers[0].ID != customer.ID {
		t.Errorf("expected the created customer listed, got %+v", customers)
	}
}
