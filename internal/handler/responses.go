package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToStatus converts a service error into the HTTP status and
// user-facing message for it. Internal details are never exposed.
func mapServiceErrorToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	case errors.Is(err, domain.ErrUnknownPack):
		return http.StatusNotFound, domain.ErrMsgUnknownPack
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, domain.ErrMsgInsufficientFunds
	case errors.Is(err, domain.ErrIdempotencyConflict):
		return http.StatusConflict, domain.ErrMsgIdempotencyConflict
	case errors.Is(err, domain.ErrNoPendingOpening):
		return http.StatusNotFound, domain.ErrMsgNoPendingOpening
	case errors.Is(err, domain.ErrNoMatchingItems):
		return http.StatusUnprocessableEntity, domain.ErrMsgNoMatchingItems
	case errors.Is(err, domain.ErrEmptyRarityPool), errors.Is(err, domain.ErrInvalidDropTable):
		return http.StatusInternalServerError, ErrMsgCatalogMisconfigured
	default:
		return http.StatusInternalServerError, ErrMsgInternalError
	}
}
