package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stemcrate/StemCrate_Go/internal/logger"
)

type ctxKey string

const ownerIDKey ctxKey = "ownerID"

// WithOwnerID returns a context carrying the resolved owner ID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerIDFromContext extracts the resolved owner ID placed by the identity
// middleware.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ownerIDKey)
	if v == nil {
		return "", false
	}
	if id, ok := v.(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// RequireOwner extracts the owner ID from the request context, writing an
// error response when identity resolution did not run.
func RequireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := OwnerIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "owner identity not resolved")
		return "", false
	}
	return ownerID, true
}

// DecodeAndValidateRequest decodes a JSON request body, validates it, and returns appropriate errors.
// If this function returns an error, the HTTP response has already been written and the handler should return.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		validationErrs := FormatValidationError(err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validationErrs,
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
