package handler

import (
	"net/http"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
	"github.com/stemcrate/StemCrate_Go/internal/logger"
	"github.com/stemcrate/StemCrate_Go/internal/opening"
)

// OpeningHandler serves the pack opening endpoints.
type OpeningHandler struct {
	service opening.Service
}

// NewOpeningHandler creates an OpeningHandler.
func NewOpeningHandler(service opening.Service) *OpeningHandler {
	return &OpeningHandler{service: service}
}

// OpenPackRequest is the body of POST /pack/open.
type OpenPackRequest struct {
	PackID         string `json:"pack_id" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

// HandleOpenPack resolves a pack purchase into a staged opening.
func (h *OpeningHandler) HandleOpenPack(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	var req OpenPackRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open pack"); err != nil {
		return
	}

	result, err := h.service.OpenPack(r.Context(), ownerID, req.PackID, req.IdempotencyKey)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to open pack", "error", err)
		statusCode, userMsg := mapServiceErrorToStatus(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGetPending returns the owner's staged opening, if any.
func (h *OpeningHandler) HandleGetPending(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	pending, err := h.service.GetPendingOpening(r.Context(), ownerID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get pending opening", "error", err)
		statusCode, userMsg := mapServiceErrorToStatus(err)
		respondError(w, statusCode, userMsg)
		return
	}
	if pending == nil {
		respondError(w, http.StatusNotFound, domain.ErrMsgNoPendingOpening)
		return
	}

	respondJSON(w, http.StatusOK, pending)
}

// CommitCollectionRequest is the body of POST /opening/commit.
type CommitCollectionRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required"`
}

// HandleCommitCollection finalizes which staged items the owner keeps.
func (h *OpeningHandler) HandleCommitCollection(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	var req CommitCollectionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Commit collection"); err != nil {
		return
	}

	view, err := h.service.CommitCollection(r.Context(), ownerID, req.ItemIDs)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit collection", "error", err)
		statusCode, userMsg := mapServiceErrorToStatus(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// HandleGetInventory returns balance, items and derived progress.
func (h *OpeningHandler) HandleGetInventory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := RequireOwner(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetInventoryWithProgress(r.Context(), ownerID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get inventory", "error", err)
		statusCode, userMsg := mapServiceErrorToStatus(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
