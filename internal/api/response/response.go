// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondServiceError maps a service error onto a status code.
// Field-level validation errors are returned as a field map.
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		RespondError(w, http.StatusBadRequest, message, verr.Fields)
	case errors.Is(err, apperrors.ErrSourceNotFound):
		RespondError(w, http.StatusNotFound, "source not found", err.Error())
	case errors.Is(err, apperrors.ErrInvalidSourceID),
		errors.Is(err, apperrors.ErrEmptyRows),
		errors.Is(err, apperrors.ErrInvalidCurrency):
		RespondError(w, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, apperrors.ErrTransportUnavailable):
		RespondError(w, http.StatusBadGateway, message, err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
