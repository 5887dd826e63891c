package handlers

import (
	"errors"
	"net/http"

	"upload-relay-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// classifyError maps a pipeline error onto an HTTP status and message.
// Typed relay errors carry their own status; anything else is treated
// as an internal failure.
func classifyError(err error) (int, string) {
	var relayErr *services.RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Code, relayErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}
