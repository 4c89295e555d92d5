package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Guard is one allow/deny predicate evaluated before a handler body runs.
// Guards compose in order: the first denial wins.
type Guard func(p *Principal) (allowed bool, reason string)

// RequireAdmin allows only sessions whose role is exactly admin.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireGuard(logger, func(p *Principal) (bool, string) {
		if !p.IsAdmin() {
			return false, "admin access required"
		}
		return true, ""
	})
}

// RequirePermission allows only sessions whose permission snapshot contains
// the capability. The snapshot is the one taken at login; mid-session
// revocations do not apply until re-login.
func RequirePermission(perm string, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireGuard(logger, func(p *Principal) (bool, string) {
		if !p.HasPermission(perm) {
			return false, "permission denied: " + perm + " required"
		}
		return true, ""
	})
}

// RequireAll evaluates an ordered list of guards, denying with the first
// guard's reason.
func RequireAll(logger *zap.Logger, guards ...Guard) func(http.Handler) http.Handler {
	return requireGuard(logger, func(p *Principal) (bool, string) {
		for _, guard := range guards {
			if allowed, reason := guard(p); !allowed {
				return false, reason
			}
		}
		return true, ""
	})
}

func requireGuard(logger *zap.Logger, guard Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				logger.Warn("Principal not found in context", zap.String("path", r.URL.Path))
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if allowed, reason := guard(principal); !allowed {
				logger.Warn("Authorization denied",
					zap.String("username", principal.Username),
					zap.String("role", principal.Role),
					zap.String("reason", reason),
				)
				respondWithError(w, http.StatusForbidden, reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
