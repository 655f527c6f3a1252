package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/middleware"
	"github.com/officehub/request-service/internal/models"
)

// respondJSON writes data as a JSON response body
func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// respondJSONStatus writes data as JSON with an explicit status code. The
// Content-Type header has to be set before the status line is written.
func respondJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// validationResponse is the 400 payload: a list of {property, message} pairs
type validationResponse struct {
	Errors []apperrors.FieldError `json:"errors"`
}

// respondError translates service errors to HTTP responses: validation
// failures become 400 with the field list, missing entities become 404,
// anything else is an unclassified fault logged and returned as 500.
func respondError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationResponse{Errors: ve.Fields})
		return
	}

	if apperrors.IsNotFound(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Printf("internal error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// requireRole checks the authenticated role against the allowed set, writing
// a 403 when it does not match.
func requireRole(w http.ResponseWriter, r *http.Request, roles ...models.UserRole) bool {
	role, ok := middleware.GetUserRole(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}

	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
	return false
}
