package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Failure is the JSON failure envelope every handler degrades to, whether the
// cause is validation, a missing document, authorization or a store failure.
type Failure struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  []ValidationError `json:"fields,omitempty"`
}

// Result is the JSON success envelope for mutations that return no resource.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithError sends the failure envelope with the given status.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Failure{Success: false, Message: message})
}

// RespondWithValidationErrors sends a 400 failure carrying field errors.
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	writeJSON(w, http.StatusBadRequest, Failure{
		Success: false,
		Message: "validation failed",
		Fields:  errors,
	})
}

// RespondWithSuccess sends the success envelope with an optional payload.
func RespondWithSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Result{Success: true, Message: message, Data: data})
}

// RespondWithJSON sends an arbitrary JSON payload.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, payload)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError keeps the package-internal helper name used by the
// middleware in this package.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithError(w, statusCode, message)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 failures.
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					respondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
