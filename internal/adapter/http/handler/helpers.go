package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quayside/payengine/internal/domain"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Semantic
// errors never reach this path (they are per-record skips), so only
// structural rejection maps to a client error.
func mapDomainError(err error) int {
	if errors.Is(err, domain.ErrMalformedRecord) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
