package handler

import (
	"net/http"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
	"github.com/stemcrate/StemCrate_Go/internal/logger"
	"github.com/stemcrate/StemCrate_Go/internal/repository"
)

// CatalogReloader reloads the catalog snapshot from disk.
type CatalogReloader interface {
	Reload() error
}

// AdminHandler serves the dev/test-only grant, reset and reload endpoints.
// These bypass the economy invariants by design and must never be mounted in
// a production deployment.
type AdminHandler struct {
	store   repository.Inventory
	catalog CatalogReloader
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(store repository.Inventory, catalog CatalogReloader) *AdminHandler {
	return &AdminHandler{store: store, catalog: catalog}
}

// GrantBalanceRequest is the body of POST /admin/grant.
type GrantBalanceRequest struct {
	Currency string `json:"currency" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,min=1,max=1000000"`
}

// HandleGrantBalance credits an owner's balance without an economy debit.
func (h *AdminHandler) HandleGrantBalance(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	var req GrantBalanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant balance"); err != nil {
		return
	}

	var newBalance int64
	err := h.store.UpdateOwnerState(r.Context(), ownerID, func(st *domain.OwnerState) error {
		st.Balance[req.Currency] += req.Amount
		newBalance = st.Balance[req.Currency]
		return nil
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to grant balance", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgGrantFailed)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{req.Currency: newBalance})
}

// HandleResetOwner wipes all state for the calling owner.
func (h *AdminHandler) HandleResetOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteOwnerState(r.Context(), ownerID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to reset owner", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgResetFailed)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgOwnerReset})
}

// HandleReloadCatalog swaps in a freshly loaded catalog snapshot.
func (h *AdminHandler) HandleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to reload catalog", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgReloadCatalogFailed)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCatalogReloaded})
}
