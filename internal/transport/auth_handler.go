package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionUser represents the authenticated identity returned to the client
type SessionUser struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AuthHandler handles HTTP requests for login and logout
type AuthHandler struct {
	userService service.UserService
	secret      string
	cookieName  string
	expiry      time.Duration
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, secret, cookieName string, expiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      secret,
		cookieName:  cookieName,
		expiry:      expiry,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth routes. The rate limiter wraps login only.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}

// Login authenticates credentials and issues the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if err := middleware.IssueSessionCookie(w, user, h.secret, h.cookieName, h.expiry); err != nil {
		h.logger.Error("Failed to issue session cookie", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	middleware.RespondWithSuccess(w, "logged in", SessionUser{
		ID:          user.ID.String(),
		Username:    user.Username,
		Role:        user.Role,
		Permissions: user.Permissions,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.cookieName)
	middleware.RespondWithSuccess(w, "logged out", nil)
}

// Me returns the authenticated session identity
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	middleware.RespondWithSuccess(w, "", SessionUser{
		ID:          principal.UserID.String(),
		Username:    principal.Username,
		Role:        principal.Role,
		Permissions: principal.Permissions,
	})
}
