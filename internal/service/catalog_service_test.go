package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/barcode"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"

	"github.com/shopspring/decimal"
)

func newCatalogFixture() (CatalogService, *mockProductRepository, *mockAttributeRepository, *mockObjectStore) {
	productRepo := newMockProductRepository()
	attributeRepo := newMockAttributeRepository()
	store := newMockObjectStore()
	svc := NewCatalogService(
		productRepo,
		attributeRepo,
		newMockActivityRepository(),
		store,
		barcode.NewGenerator(store, "barcodes"),
		cache.New(),
		"product-images",
		[]string{"jpg", "jpeg", "png", "webp"},
	)
	return svc, productRepo, attributeRepo, store
}

func TestAddProduct_AssignsBarcodeAndQR(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _, store := newCatalogFixture()

	product, err := svc.AddProduct(ctx, ProductInput{
		Name:     "Kurta",
		Category: "Traditional",
		Price:    decimal.NewFromInt(950),
	}, nil, "admin")
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	if !strings.HasPrefix(product.Barcode, "PROD_") || len(product.Barcode) != len("PROD_")+12 {
		t.Errorf("unexpected barcode format: %q", product.Barcode)
	}
	if product.Barcode != strings.ToUpper(product.Barcode) {
		t.Errorf("barcode must be uppercase: %q", product.Barcode)
	}
	if product.QRCodeURL == "" {
		t.Error("expected a QR code URL")
	}
	if _, ok := store.uploads["barcodes/"+product.Barcode+".png"]; !ok {
		t.Errorf("expected QR upload under barcodes/, got %v", store.uploads)
	}

	stored, err := productRepo.FindByBarcode(ctx, product.Barcode)
	if err != nil {
		t.Fatalf("product not findable by barcode: %v", err)
	}
	if stored.ID != product.ID {
		t.Error("barcode lookup returned a different product")
	}
}

func TestAddProduct_UploadsImage(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newCatalogFixture()

	product, err := svc.AddProduct(ctx, ProductInput{
		Name:  "Pictured Product",
		Price: decimal.NewFromInt(100),
	}, &ImageUpload{
		Filename:    "../evil path/photo 1.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("fake-image-bytes"),
	}, "admin")
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if product.ImageURL == "" {
		t.Fatal("expected an image URL")
	}
	if strings.Contains(product.ImageURL, " ") || strings.Contains(product.ImageURL, "..") {
		t.Errorf("image URL not sanitized: %q", product.ImageURL)
	}

	found := false
	for name := range store.uploads {
		if strings.HasPrefix(name, "product-images/") && strings.HasSuffix(name, ".jpg") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sanitized upload under product-images/, got %v", store.uploads)
	}
}

func TestAddProduct_RejectsUnsupportedImageType(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	_, err := svc.AddProduct(ctx, ProductInput{
		Name:  "Bad Image Product",
		Price: decimal.NewFromInt(100),
	}, &ImageUpload{
		Filename:    "malware.exe",
		ContentType: "application/octet-stream",
		Body:        strings.NewReader("not an image"),
	}, "admin")
	if err != ErrUnsupportedImageType {
		t.Errorf("expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestUpdateProduct_KeepsBarcode(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	product, err := svc.AddProduct(ctx, ProductInput{
		Name:  "Stable Product",
		Price: decimal.NewFromInt(100),
	}, nil, "admin")
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{
		Name:  "Renamed Product",
		Price: decimal.NewFromInt(150),
	}, nil, "admin")
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Name != "Renamed Product" {
		t.Errorf("expected renamed product, got %q", updated.Name)
	}
	if updated.Barcode != product.Barcode {
		t.Errorf("barcode must survive updates: %q vs %q", updated.Barcode, product.Barcode)
	}
}

func TestBackfillBarcodes(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _, _ := newCatalogFixture()

	// Two products imported without barcodes, one complete.
	for i := 0; i < 2; i++ {
		p := seedProduct(productRepo, 100)
		p.Barcode = ""
		p.QRCodeURL = ""
	}
	complete := seedProduct(productRepo, 100)
	complete.QRCodeURL = "https://storage.test/barcodes/x.png"

	count, err := svc.BackfillBarcodes(ctx, "admin")
	if err != nil {
		t.Fatalf("BackfillBarcodes failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 backfilled products, got %d", count)
	}

	missing, _ := productRepo.ListMissingBarcode(ctx)
	if len(missing) != 0 {
		t.Errorf("expected no products left without barcodes, got %d", len(missing))
	}
}

func TestDeleteAttribute_BlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCatalogFixture()

	attr, err := svc.AddAttribute(ctx, domain.AttributeCategory, "Panjabi", "traditional wear", "admin")
	if err != nil {
		t.Fatalf("AddAttribute failed: %v", err)
	}

	if _, err := svc.AddProduct(ctx, ProductInput{
		Name:     "Eid Panjabi",
		Category: "Panjabi",
		Price:    decimal.NewFromInt(1800),
	}, nil, "admin"); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	if err := svc.DeleteAttribute(ctx, domain.AttributeCategory, attr.ID, "admin"); err != ErrAttributeInUse {
		t.Errorf("expected ErrAttributeInUse, got %v", err)
	}

	// Unreferenced attributes delete cleanly.
	unused, err := svc.AddAttribute(ctx, domain.AttributeColor, "Teal", "", "admin")
	if err != nil {
		t.Fatalf("AddAttribute failed: %v", err)
	}
	if err := svc.DeleteAttribute(ctx, domain.AttributeColor, unused.ID, "admin"); err != nil {
		t.Errorf("expected clean delete, got %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _, _ := newCatalogFixture()

	seedProduct(productRepo, 100)
	seedProduct(productRepo, 250)

	stats, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if stats.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", stats.TotalProducts)
	}
	if !stats.TotalValue.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected total value 350, got %s", stats.TotalValue)
	}
}
