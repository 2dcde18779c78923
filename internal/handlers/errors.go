package handlers

import (
	"net/http"

	"collections-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusForError maps a failure to its HTTP status. Only validation
// failures are the client's fault; everything else is a server error.
func statusForError(err error) int {
	if services.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// summaryForStatus is the short error label for an error response
func summaryForStatus(status int, fallback string) string {
	if status == http.StatusBadRequest {
		return "Validation failed"
	}
	return fallback
}
