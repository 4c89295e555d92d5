package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// ResetRequest represents the hard reset payload
type ResetRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

// AdminHandler handles the destructive administrative endpoints
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// RegisterRoutes registers the admin routes, admin only.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	adminOnly := middleware.RequireAdmin(h.logger)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)

		r.Post("/reset", h.HardReset)
	})
}

// HardReset wipes every data table except users
func (h *AdminHandler) HardReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.admin.HardReset(r.Context(), req.Confirmation, actor(r))
	if err != nil {
		if errors.Is(err, service.ErrResetNotConfirmed) {
			middleware.RespondWithError(w, http.StatusBadRequest, "confirmation phrase does not match")
			return
		}
		h.logger.Error("Hard reset failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reset data")
		return
	}

	h.logger.Warn("All data wiped by administrator", zap.String("username", actor(r)))
	middleware.RespondWithSuccess(w, "all data wiped", results)
}
