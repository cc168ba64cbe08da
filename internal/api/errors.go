package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondText sends a plain text response.
func respondText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(body))
}

// parseJSONBody parses JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// Common error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// respondServiceError maps a service error onto the HTTP response.
// Categorized errors carry their own status code and wire shape; anything
// else is masked as an opaque internal error.
func respondServiceError(w http.ResponseWriter, err error) {
	catErr := apperrors.Categorize(err)
	if catErr == nil || catErr.StatusCode >= 500 {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred", nil)
		return
	}

	svcErr := catErr.ToServiceError()
	respondError(w, catErr.StatusCode, svcErr.Code, svcErr.Message, svcErr.Details)
}
