package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated session state: identity plus the permission
// snapshot copied from the user record at login. Permissions are NOT re-read
// from the store per request; a revocation takes effect at next login.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	Role        string
	Permissions []string
}

// HasPermission reports whether the snapshot contains the capability.
func (p *Principal) HasPermission(perm string) bool {
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the session role is exactly admin.
func (p *Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

type sessionClaims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// IssueSessionCookie signs a session token for the user and sets it as an
// HttpOnly cookie on the response.
func IssueSessionCookie(w http.ResponseWriter, user *domain.User, secret, cookieName string, expiry time.Duration) error {
	now := time.Now()
	claims := sessionClaims{
		Username:    user.Username,
		Role:        user.Role,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(expiry),
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// AuthMiddleware validates the session cookie and attaches the Principal to
// the request context.
func AuthMiddleware(secret, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				logger.Debug("Missing session cookie")
				respondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims := &sessionClaims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})

			if err != nil || !token.Valid {
				logger.Debug("Session validation failed", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "session invalid or expired")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				logger.Error("Malformed subject in session token", zap.String("subject", claims.Subject))
				respondWithError(w, http.StatusUnauthorized, "session invalid or expired")
				return
			}

			principal := &Principal{
				UserID:      userID,
				Username:    claims.Username,
				Role:        claims.Role,
				Permissions: claims.Permissions,
			}

			logger.Debug("User authenticated",
				zap.String("user_id", userID.String()),
				zap.String("username", claims.Username),
			)

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from the request context.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Used by tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
