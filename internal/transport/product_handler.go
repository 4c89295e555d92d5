package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// maxUploadSize caps multipart product forms, image included.
const maxUploadSize = 10 << 20

// ProductForm represents the multipart product create/update payload
type ProductForm struct {
	Name        string `validate:"required"`
	Category    string `validate:"required"`
	Size        string
	Color       string
	Price       string `validate:"required"`
	BodySize    string
	WaistSize   string
	Length      string
	Description string
}

// AttributeRequest represents the attribute create/update payload
type AttributeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers all catalog routes behind the session middleware
// and per-capability guards.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	view := middleware.RequirePermission(domain.PermViewProducts, h.logger)
	add := middleware.RequirePermission(domain.PermAddProducts, h.logger)
	edit := middleware.RequirePermission(domain.PermEditProducts, h.logger)
	del := middleware.RequirePermission(domain.PermDeleteProducts, h.logger)
	reports := middleware.RequirePermission(domain.PermViewReports, h.logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(view).Get("/", h.List)
		r.With(view).Get("/{id}", h.Get)
		r.With(view).Get("/barcode/{code}", h.GetByBarcode)
		r.With(add).Post("/", h.Create)
		r.With(edit).Put("/{id}", h.Update)
		r.With(edit).Post("/generate-qr", h.BackfillBarcodes)
		r.With(del).Delete("/{id}", h.Delete)
	})

	r.Route("/api/attributes/{kind}", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(view).Get("/", h.ListAttributes)
		r.With(edit).Post("/", h.CreateAttribute)
		r.With(edit).Put("/{id}", h.UpdateAttribute)
		r.With(edit).Delete("/{id}", h.DeleteAttribute)
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(reports).Get("/stats", h.DashboardStats)
		r.With(reports).Get("/activities", h.RecentActivities)
	})
}

// productInput reads the multipart form into a validated service input plus
// the optional image upload.
func (h *ProductHandler) productInput(r *http.Request) (service.ProductInput, *service.ImageUpload, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return service.ProductInput{}, nil, errors.New("invalid multipart form")
	}

	form := ProductForm{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Size:        r.FormValue("size"),
		Color:       r.FormValue("color"),
		Price:       r.FormValue("price"),
		BodySize:    r.FormValue("body_size"),
		WaistSize:   r.FormValue("waist_size"),
		Length:      r.FormValue("length"),
		Description: r.FormValue("description"),
	}
	if err := middleware.ValidateRequest(form); err != nil {
		return service.ProductInput{}, nil, err
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil || price.IsNegative() {
		return service.ProductInput{}, nil, errors.New("price must be a non-negative number")
	}

	input := service.ProductInput{
		Name:        form.Name,
		Category:    form.Category,
		Size:        form.Size,
		Color:       form.Color,
		Price:       price,
		BodySize:    form.BodySize,
		WaistSize:   form.WaistSize,
		Length:      form.Length,
		Description: form.Description,
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, nil
		}
		return service.ProductInput{}, nil, errors.New("invalid image upload")
	}

	image := &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return input, image, nil
}

// Create adds a product from a multipart form with an optional image
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, image, err := h.productInput(r)
	if err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), input, image, actor(r))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImageType) {
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image file type")
			return
		}
		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "product added",
		Data:    product,
	})
}

// Update edits a product from a multipart form
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	input, image, err := h.productInput(r)
	if err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input, image, actor(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrUnsupportedImageType):
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image file type")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithSuccess(w, "product updated", product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id, actor(r)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithSuccess(w, "product deleted", nil)
}

// Get returns one product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithSuccess(w, "", product)
}

// GetByBarcode returns the product behind a scanned barcode
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	product, err := h.catalog.GetProductByBarcode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to look up barcode", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to look up barcode")
		return
	}

	middleware.RespondWithSuccess(w, "", product)
}

// List returns the full catalog
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithSuccess(w, "", products)
}

// BackfillBarcodes generates barcodes and QR images for products missing them
func (h *ProductHandler) BackfillBarcodes(w http.ResponseWriter, r *http.Request) {
	updated, err := h.catalog.BackfillBarcodes(r.Context(), actor(r))
	if err != nil {
		h.logger.Error("Failed to backfill barcodes", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR codes")
		return
	}

	middleware.RespondWithSuccess(w, "QR codes generated", map[string]int{"updated": updated})
}

// CreateAttribute adds a category, size or color
func (h *ProductHandler) CreateAttribute(w http.ResponseWriter, r *http.Request) {
	kind, ok := attributeKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "unknown attribute kind")
		return
	}

	var req AttributeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attr, err := h.catalog.AddAttribute(r.Context(), kind, req.Name, req.Description, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrAttributeExists) {
			middleware.RespondWithError(w, http.StatusConflict, "an attribute with this name already exists")
			return
		}
		h.logger.Error("Failed to add attribute", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add attribute")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "attribute added",
		Data:    attr,
	})
}

// UpdateAttribute renames or re-describes an attribute
func (h *ProductHandler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	kind, ok := attributeKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "unknown attribute kind")
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid attribute id")
		return
	}

	var req AttributeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attr, err := h.catalog.UpdateAttribute(r.Context(), kind, id, req.Name, req.Description, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrAttributeNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "attribute not found")
			return
		}
		h.logger.Error("Failed to update attribute", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update attribute")
		return
	}

	middleware.RespondWithSuccess(w, "attribute updated", attr)
}

// DeleteAttribute removes an attribute unless products still reference it
func (h *ProductHandler) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	kind, ok := attributeKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "unknown attribute kind")
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid attribute id")
		return
	}

	if err := h.catalog.DeleteAttribute(r.Context(), kind, id, actor(r)); err != nil {
		switch {
		case errors.Is(err, repository.ErrAttributeNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "attribute not found")
		case errors.Is(err, service.ErrAttributeInUse):
			middleware.RespondWithError(w, http.StatusConflict, "attribute is in use by existing products")
		default:
			h.logger.Error("Failed to delete attribute", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete attribute")
		}
		return
	}

	middleware.RespondWithSuccess(w, "attribute deleted", nil)
}

// ListAttributes returns every attribute of one kind
func (h *ProductHandler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	kind, ok := attributeKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "unknown attribute kind")
		return
	}

	attrs, err := h.catalog.ListAttributes(r.Context(), kind)
	if err != nil {
		h.logger.Error("Failed to list attributes", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list attributes")
		return
	}

	middleware.RespondWithSuccess(w, "", attrs)
}

// DashboardStats returns the landing-page aggregate
func (h *ProductHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.DashboardStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	middleware.RespondWithSuccess(w, "", stats)
}

// RecentActivities returns the latest audit records
func (h *ProductHandler) RecentActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.catalog.RecentActivities(r.Context())
	if err != nil {
		h.logger.Error("Failed to list activities", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	middleware.RespondWithSuccess(w, "", activities)
}
