package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// ProductionItemRequest is one requested (product, quantity) pair
type ProductionItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// ProductionRequest represents the production order creation payload
type ProductionRequest struct {
	Items []ProductionItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes string                  `json:"notes"`
}

// ProductionStatusRequest represents the status update payload
type ProductionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProductionHandler handles HTTP requests for production orders
type ProductionHandler struct {
	production service.ProductionService
	logger     *zap.Logger
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(production service.ProductionService, logger *zap.Logger) *ProductionHandler {
	return &ProductionHandler{production: production, logger: logger}
}

// RegisterRoutes registers all production routes
func (h *ProductionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	view := middleware.RequirePermission(domain.PermViewProducts, h.logger)
	edit := middleware.RequirePermission(domain.PermEditProducts, h.logger)

	r.Route("/api/production", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(view).Get("/", h.List)
		r.With(view).Get("/{id}", h.Get)
		r.With(edit).Post("/", h.Create)
		r.With(edit).Put("/{id}/status", h.UpdateStatus)
		r.With(edit).Delete("/{id}", h.Delete)
	})
}

// Create records production orders for the requested products
func (h *ProductionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]service.ProductionLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue
		}
		lines = append(lines, service.ProductionLineInput{ProductID: productID, Quantity: item.Quantity})
	}

	orders, err := h.production.CreateOrders(r.Context(), lines, req.Notes, actor(r))
	if err != nil {
		if errors.Is(err, service.ErrNoProductionLines) {
			middleware.RespondWithError(w, http.StatusBadRequest, "order contains no valid items")
			return
		}
		h.logger.Error("Failed to create production orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create production orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "production orders created",
		Data:    orders,
	})
}

// List returns all production orders
func (h *ProductionHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.production.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list production orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list production orders")
		return
	}

	middleware.RespondWithSuccess(w, "", orders)
}

// Get returns one production order
func (h *ProductionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid production order id")
		return
	}

	order, err := h.production.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductionOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "production order not found")
			return
		}
		h.logger.Error("Failed to get production order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get production order")
		return
	}

	middleware.RespondWithSuccess(w, "", order)
}

// UpdateStatus moves a production order through its workflow
func (h *ProductionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid production order id")
		return
	}

	var req ProductionStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.production.UpdateStatus(r.Context(), id, req.Status, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrProductionOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "production order not found")
			return
		}
		h.logger.Error("Failed to update production status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update production status")
		return
	}

	middleware.RespondWithSuccess(w, "production status updated", order)
}

// Delete removes a production order
func (h *ProductionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid production order id")
		return
	}

	if err := h.production.DeleteOrder(r.Context(), id, actor(r)); err != nil {
		if errors.Is(err, repository.ErrProductionOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "production order not found")
			return
		}
		h.logger.Error("Failed to delete production order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete production order")
		return
	}

	middleware.RespondWithSuccess(w, "production order deleted", nil)
}
