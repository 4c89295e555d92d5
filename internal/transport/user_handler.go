package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// CreateUserRequest represents the account creation payload
type CreateUserRequest struct {
	Username    string   `json:"username" validate:"required,min=3"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        string   `json:"role" validate:"required,oneof=admin manager staff viewer"`
	Permissions []string `json:"permissions"`
	Active      bool     `json:"active"`
}

// UpdateUserRequest represents the account update payload. An empty password
// keeps the current one.
type UpdateUserRequest struct {
	Password    string   `json:"password" validate:"omitempty,min=6"`
	Role        string   `json:"role" validate:"required,oneof=admin manager staff viewer"`
	Permissions []string `json:"permissions"`
	Active      bool     `json:"active"`
}

// UserHandler handles HTTP requests for account administration
type UserHandler struct {
	users  service.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// RegisterRoutes registers all account administration routes, admin only.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	admin := middleware.RequireAdmin(h.logger)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(admin)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create adds an account
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.UserInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
		Active:      req.Active,
	}, actor(r))
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			middleware.RespondWithError(w, http.StatusConflict, "a user with this username already exists")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.Result{
		Success: true,
		Message: "user created",
		Data:    user,
	})
}

// Update changes an account's role, permissions, active flag or password
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, service.UserUpdateInput{
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
		Active:      req.Active,
	}, actor(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrLastAdmin):
			middleware.RespondWithError(w, http.StatusConflict, "cannot remove the last active admin")
		default:
			h.logger.Error("Failed to update user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	middleware.RespondWithSuccess(w, "user updated", user)
}

// Delete removes an account
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id, principal.UserID, principal.Username); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrSelfDelete):
			middleware.RespondWithError(w, http.StatusConflict, "cannot delete your own account")
		case errors.Is(err, service.ErrLastAdmin):
			middleware.RespondWithError(w, http.StatusConflict, "cannot remove the last active admin")
		default:
			h.logger.Error("Failed to delete user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	middleware.RespondWithSuccess(w, "user deleted", nil)
}

// List returns every account
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithSuccess(w, "", users)
}
