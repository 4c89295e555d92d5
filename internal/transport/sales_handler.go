package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// SaleRequest represents a single-product sale payload
type SaleRequest struct {
	CustomerName      string  `json:"customer_name" validate:"required"`
	CustomerAddress   string  `json:"customer_address"`
	CustomerPhone     string  `json:"customer_phone"`
	ProductID         string  `json:"product_id" validate:"required,uuid"`
	ItemNumbers       string  `json:"item_numbers" validate:"required"`
	Size              string  `json:"size"`
	Color             string  `json:"color"`
	DeliveryCharge    float64 `json:"delivery_charge" validate:"gte=0"`
	EmergencyDelivery bool    `json:"emergency_delivery"`
	Notes             string  `json:"notes"`
}

// ConsolidatedItemRequest is one line of a JSON consolidated sale payload
type ConsolidatedItemRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	ItemNumbers string `json:"item_numbers" validate:"required"`
	Size        string `json:"size"`
	Color       string `json:"color"`
}

// ConsolidatedSaleRequest represents a multi-product sale payload
type ConsolidatedSaleRequest struct {
	CustomerName      string                    `json:"customer_name" validate:"required"`
	CustomerAddress   string                    `json:"customer_address"`
	CustomerPhone     string                    `json:"customer_phone"`
	Items             []ConsolidatedItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryCharge    float64                   `json:"delivery_charge" validate:"gte=0"`
	EmergencyDelivery bool                      `json:"emergency_delivery"`
	Notes             string                    `json:"notes"`
}

// SalesHandler handles HTTP requests for sales and customer lookups
type SalesHandler struct {
	sales  service.SalesService
	logger *zap.Logger
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(sales service.SalesService, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{sales: sales, logger: logger}
}

// RegisterRoutes registers all sales routes
func (h *SalesHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	sell := middleware.RequirePermission(domain.PermSalesCustomer, h.logger)

	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(sell)

		r.Get("/", h.ListGroups)
		r.Post("/", h.CreateSale)
		r.Post("/consolidated", h.CreateConsolidatedSale)
		r.Get("/{id}", h.GetSale)
		r.Post("/{id}/return", h.MarkReturned)
		r.Post("/{id}/toggle-emergency", h.ToggleEmergency)
		r.Post("/{id}/toggle-delivered", h.ToggleDelivered)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(sell)

		r.Get("/api/customers/history", h.CustomerHistory)
		r.Get("/api/customers/returned", h.ReturnedCustomers)
		r.Get("/api/customers/search", h.SearchCustomers)
	})
}

// CreateSale records a single-product sale
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	order, err := h.sales.CreateSale(r.Context(), service.SingleSaleInput{
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		CustomerPhone:     req.CustomerPhone,
		ProductID:         productID,
		ItemNumbers:       req.ItemNumbers,
		Size:              req.Size,
		Color:             req.Color,
		DeliveryCharge:    decimal.NewFromFloat(req.DeliveryCharge),
		EmergencyDelivery: req.EmergencyDelivery,
		Notes:             req.Notes,
	}, actor(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "item numbers describe no items")
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to create sale", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "sale recorded",
		Data:    order,
	})
}

// consolidatedInputFromForm decodes the two browser form encodings: indexed
// variant_<n>_* fields and the older product_<id>_* fields.
func consolidatedInputFromForm(r *http.Request) (service.ConsolidatedSaleInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.ConsolidatedSaleInput{}, errors.New("invalid form body")
	}

	form := r.PostForm
	input := service.ConsolidatedSaleInput{
		CustomerName:      form.Get("customer_name"),
		CustomerAddress:   form.Get("customer_address"),
		CustomerPhone:     form.Get("customer_phone"),
		EmergencyDelivery: form.Get("emergency_delivery") == "on" || form.Get("emergency_delivery") == "true",
		Notes:             form.Get("notes"),
	}

	if input.CustomerName == "" {
		return service.ConsolidatedSaleInput{}, errors.New("customer name is required")
	}

	if raw := form.Get("delivery_charge"); raw != "" {
		charge, err := decimal.NewFromString(raw)
		if err != nil || charge.IsNegative() {
			return service.ConsolidatedSaleInput{}, errors.New("delivery charge must be a non-negative number")
		}
		input.DeliveryCharge = charge
	}

	// Indexed variant fields.
	for n := 1; ; n++ {
		prefix := fmt.Sprintf("variant_%d_", n)
		rawID := form.Get(prefix + "product")
		if rawID == "" {
			break
		}
		productID, err := uuid.Parse(rawID)
		if err != nil {
			continue
		}
		input.Lines = append(input.Lines, service.SaleLineInput{
			ProductID:   productID,
			ItemNumbers: form.Get(prefix + "items"),
			Size:        form.Get(prefix + "size"),
			Color:       form.Get(prefix + "color"),
		})
	}

	// Older per-product fields.
	for key := range form {
		if !strings.HasPrefix(key, "product_") || !strings.HasSuffix(key, "_items") {
			continue
		}
		rawID := strings.TrimSuffix(strings.TrimPrefix(key, "product_"), "_items")
		productID, err := uuid.Parse(rawID)
		if err != nil {
			continue
		}
		input.Lines = append(input.Lines, service.SaleLineInput{
			ProductID:   productID,
			ItemNumbers: form.Get(key),
			Size:        form.Get("product_" + rawID + "_size"),
			Color:       form.Get("product_" + rawID + "_color"),
		})
	}

	return input, nil
}

// CreateConsolidatedSale records a multi-product sale. JSON bodies and both
// browser form encodings are accepted.
func (h *SalesHandler) CreateConsolidatedSale(w http.ResponseWriter, r *http.Request) {
	var input service.ConsolidatedSaleInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req ConsolidatedSaleRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
				middleware.RespondWithValidationErrors(w, validationErrors)
				return
			}
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		input = service.ConsolidatedSaleInput{
			CustomerName:      req.CustomerName,
			CustomerAddress:   req.CustomerAddress,
			CustomerPhone:     req.CustomerPhone,
			DeliveryCharge:    decimal.NewFromFloat(req.DeliveryCharge),
			EmergencyDelivery: req.EmergencyDelivery,
			Notes:             req.Notes,
		}
		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				continue
			}
			input.Lines = append(input.Lines, service.SaleLineInput{
				ProductID:   productID,
				ItemNumbers: item.ItemNumbers,
				Size:        item.Size,
				Color:       item.Color,
			})
		}
	} else {
		parsed, err := consolidatedInputFromForm(r)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		input = parsed
	}

	order, err := h.sales.CreateConsolidatedSale(r.Context(), input, actor(r))
	if err != nil {
		if errors.Is(err, service.ErrNoSaleLines) {
			middleware.RespondWithError(w, http.StatusBadRequest, "order contains no valid items")
			return
		}
		h.logger.Error("Failed to create consolidated sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record sale")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "sale recorded",
		Data:    order,
	})
}

// ListGroups returns all sales assembled into per-customer receipts
func (h *SalesHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.sales.ListGroups(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	middleware.RespondWithSuccess(w, "", groups)
}

// GetSale returns one sale order
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	order, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}
		h.logger.Error("Failed to get sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get sale")
		return
	}

	middleware.RespondWithSuccess(w, "", order)
}

// MarkReturned flips a sale to returned
func (h *SalesHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	order, err := h.sales.MarkReturned(r.Context(), id, actor(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSaleNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
		case errors.Is(err, service.ErrAlreadyReturned):
			middleware.RespondWithError(w, http.StatusConflict, "sale is already returned")
		default:
			h.logger.Error("Failed to mark sale returned", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark sale returned")
		}
		return
	}

	middleware.RespondWithSuccess(w, "sale marked returned", order)
}

// ToggleEmergency flips the emergency-delivery flag
func (h *SalesHandler) ToggleEmergency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	state, err := h.sales.ToggleEmergency(r.Context(), id, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}
		h.logger.Error("Failed to toggle emergency delivery", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update sale")
		return
	}

	middleware.RespondWithSuccess(w, "emergency delivery updated", map[string]bool{"emergency_delivery": state})
}

// ToggleDelivered flips the delivered flag
func (h *SalesHandler) ToggleDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	state, err := h.sales.ToggleDelivered(r.Context(), id, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}
		h.logger.Error("Failed to toggle delivered", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update sale")
		return
	}

	middleware.RespondWithSuccess(w, "delivery status updated", map[string]bool{"delivered": state})
}

// CustomerHistory summarizes one customer's orders by name and/or phone
func (h *SalesHandler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	phone := r.URL.Query().Get("phone")
	if name == "" && phone == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "name or phone is required")
		return
	}

	history, err := h.sales.CustomerHistory(r.Context(), name, phone)
	if err != nil {
		h.logger.Error("Failed to load customer history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load customer history")
		return
	}

	middleware.RespondWithSuccess(w, "", history)
}

// ReturnedCustomers aggregates customers with returned orders
func (h *SalesHandler) ReturnedCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.sales.ReturnedCustomers(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate returned customers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load returned customers")
		return
	}

	middleware.RespondWithSuccess(w, "", customers)
}

// SearchCustomers suggests customers from past sales for autocomplete
func (h *SalesHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.sales.SearchCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("Failed to search customers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search customers")
		return
	}

	middleware.RespondWithSuccess(w, "", suggestions)
}
