// Package barcode generates product barcode identifiers and their scannable
// QR images.
package barcode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/storage"
)

// qrSize is the pixel width of the generated QR PNG.
const qrSize = 256

// NewIdentifier returns a fresh opaque barcode value, unique per product.
func NewIdentifier() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PROD_" + strings.ToUpper(hex[:12])
}

// Generator produces QR images for barcode identifiers and uploads them to
// object storage under the configured prefix.
type Generator struct {
	store  storage.ObjectStore
	prefix string
}

// NewGenerator creates a Generator uploading under prefix (e.g. "barcodes").
func NewGenerator(store storage.ObjectStore, prefix string) *Generator {
	return &Generator{store: store, prefix: prefix}
}

// Generate encodes the identifier as a QR PNG, uploads it, and returns the
// public URL. The upload failure surfaces as the operation failure; the
// caller decides whether the product save proceeds.
func (g *Generator) Generate(ctx context.Context, identifier string) (string, error) {
	png, err := qrcode.Encode(identifier, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR for %s: %w", identifier, err)
	}

	name := fmt.Sprintf("%s/%s.png", g.prefix, identifier)
	url, err := g.store.Upload(ctx, name, "image/png", bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("failed to upload QR image: %w", err)
	}

	return url, nil
}
