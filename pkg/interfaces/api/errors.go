package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error is an API error with its HTTP status
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *Error) Error() string {
	return e.Message
}

// Common API errors
var (
	ErrInvalidRequest = &Error{Message: "Invalid request", StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST"}
	ErrNotFound       = &Error{Message: "Resource not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrInternalServer = &Error{Message: "Internal server error", StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
	ErrExportFailed   = &Error{Message: "Export failed", StatusCode: http.StatusInternalServerError, Code: "EXPORT_FAILED"}
)

// NewValidationError creates a 400 error with a custom message
func NewValidationError(message string) *Error {
	return &Error{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
	}
}

// toAPIError maps service and domain errors onto API errors
func toAPIError(err error) *Error {
	var apiError *Error
	switch {
	case errors.As(err, &apiError):
		return apiError
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, tracking.ErrInvalidRequest),
		errors.Is(err, entities.ErrInvalidDate),
		errors.Is(err, entities.ErrUnknownKind),
		errors.Is(err, entities.ErrInvalidRole):
		return NewValidationError(err.Error())
	case errors.Is(err, export.ErrExportFailed):
		return ErrExportFailed
	default:
		return nil
	}
}

// WriteError writes an error response. Errors that do not map to a known API error
// are logged and reported as 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if apiError := toAPIError(err); apiError != nil {
		if apiError.StatusCode >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", r.URL.Path).Msg(apiError.Message)
		}
		writeJSONResponse(w, apiError.StatusCode, ErrorResponse{
			Message: apiError.Message,
			Code:    apiError.Code,
		})
		return
	}

	log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
	writeJSONResponse(w, http.StatusInternalServerError, ErrorResponse{
		Message: ErrInternalServer.Message,
		Code:    ErrInternalServer.Code,
	})
}

func writeJSONResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
