package handlers

import (
	"errors"
	"net/http"

	"github.com/rmfwatch/rmf-dashboard/internal/api/response"
	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.RespondJSON(w, status, data)
}

// statusForError maps service errors to HTTP status codes. Unknown errors
// map to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrFundNotFound),
		errors.Is(err, apperrors.ErrNavHistoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrNotInitialized),
		errors.Is(err, apperrors.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrNavHistoryTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError sends a structured error with the mapped status code.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	response.RespondError(w, statusForError(err), message, err.Error())
}
