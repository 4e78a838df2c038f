package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidRange      = "INVALID_RANGE"
	CodePastDate          = "PAST_DATE"
	CodeDateConflict      = "DATE_CONFLICT"
	CodeAlreadyCancelled  = "ALREADY_CANCELLED"
	CodeAlreadyCompleted  = "ALREADY_COMPLETED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeDuplicateReview   = "DUPLICATE_REVIEW"
	CodeAmountMismatch    = "AMOUNT_MISMATCH"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	WriteErrorWithDetails(w, statusCode, message, code, "")
}

// WriteErrorWithDetails writes a structured JSON error response with
// additional field-level detail
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// FromDomain maps a domain error onto the HTTP error surface.
func FromDomain(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		WriteErrorWithDetails(w, http.StatusBadRequest, vErr.Message, CodeInvalidInput, vErr.Field)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidRange)
	case errors.Is(err, domain.ErrPastDate):
		WriteError(w, http.StatusBadRequest, err.Error(), CodePastDate)
	case errors.Is(err, domain.ErrDateConflict):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeDateConflict)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeAlreadyCancelled)
	case errors.Is(err, domain.ErrAlreadyCompleted):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeAlreadyCompleted)
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidTransition)
	case errors.Is(err, domain.ErrNotEligible):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeNotEligible)
	case errors.Is(err, domain.ErrDuplicateReview):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeDuplicateReview)
	case errors.Is(err, domain.ErrAmountMismatch):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeAmountMismatch)
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "insufficient permissions", CodeForbidden)
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found", CodeNotFound)
	default:
		logger.Error("unhandled request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
	}
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
