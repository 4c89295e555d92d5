package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
)

// actor returns the authenticated username, empty when unauthenticated.
func actor(r *http.Request) string {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return ""
	}
	return principal.Username
}

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// attributeKind maps the {kind} URL parameter onto an attribute kind.
func attributeKind(r *http.Request) (domain.AttributeKind, bool) {
	switch chi.URLParam(r, "kind") {
	case "categories":
		return domain.AttributeCategory, true
	case "sizes":
		return domain.AttributeSize, true
	case "colors":
		return domain.AttributeColor, true
	default:
		return "", false
	}
}

// sendWorkbook writes xlsx bytes with the download headers browsers expect.
func sendWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
