package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// CustomerRequest represents the customer creation payload
type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CustomerHandler handles HTTP requests for saved customers
type CustomerHandler struct {
	customers service.CustomerService
	logger    *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

// RegisterRoutes registers the saved-customer routes. The lookup endpoints
// under the same prefix belong to the sales handler.
func (h *CustomerHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	sell := middleware.RequirePermission(domain.PermSalesCustomer, h.logger)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(sell)

		r.Get("/api/customers", h.List)
		r.Post("/api/customers", h.Create)
	})
}

// Create saves a customer record
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customers.AddCustomer(r.Context(), service.CustomerInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}, actor(r))
	if err != nil {
		h.logger.Error("Failed to add customer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "customer added",
		Data:    customer,
	})
}

// List returns every saved customer
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	middleware.RespondWithSuccess(w, "", customers)
}
