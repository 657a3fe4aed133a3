package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
	"github.com/stemcrate/StemCrate_Go/internal/opening"
)

// fakeService scripts opening.Service responses per test.
type fakeService struct {
	openResult *domain.OpeningResult
	openErr    error
	pending    *domain.PendingOpening
	pendingErr error
	view       *opening.InventoryView
	viewErr    error

	gotOwner   string
	gotPack    string
	gotKey     string
	gotItemIDs []string
}

func (f *fakeService) OpenPack(ctx context.Context, ownerID, packID, idempotencyKey string) (*domain.OpeningResult, error) {
	f.gotOwner, f.gotPack, f.gotKey = ownerID, packID, idempotencyKey
	return f.openResult, f.openErr
}

func (f *fakeService) GetPendingOpening(ctx context.Context, ownerID string) (*domain.PendingOpening, error) {
	f.gotOwner = ownerID
	return f.pending, f.pendingErr
}

func (f *fakeService) CommitCollection(ctx context.Context, ownerID string, itemIDs []string) (*opening.InventoryView, error) {
	f.gotOwner, f.gotItemIDs = ownerID, itemIDs
	return f.view, f.viewErr
}

func (f *fakeService) GetInventoryWithProgress(ctx context.Context, ownerID string) (*opening.InventoryView, error) {
	f.gotOwner = ownerID
	return f.view, f.viewErr
}

func ownedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(WithOwnerID(req.Context(), "owner-1"))
}

func TestHandleOpenPack_Success(t *testing.T) {
	InitValidator()
	fake := &fakeService{openResult: &domain.OpeningResult{OpeningID: "op-1"}}
	h := NewOpeningHandler(fake)

	req := ownedRequest(t, "POST", "/api/v1/pack/open", OpenPackRequest{
		PackID:         "starter",
		IdempotencyKey: "key-1",
	})
	rec := httptest.NewRecorder()
	h.HandleOpenPack(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", fake.gotOwner)
	assert.Equal(t, "starter", fake.gotPack)
	assert.Equal(t, "key-1", fake.gotKey)

	var result domain.OpeningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "op-1", result.OpeningID)
}

func TestHandleOpenPack_MissingOwnerIdentity(t *testing.T) {
	InitValidator()
	h := NewOpeningHandler(&fakeService{})

	req := httptest.NewRequest("POST", "/api/v1/pack/open", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	h.HandleOpenPack(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleOpenPack_ValidationFailure(t *testing.T) {
	InitValidator()
	h := NewOpeningHandler(&fakeService{})

	req := ownedRequest(t, "POST", "/api/v1/pack/open", OpenPackRequest{PackID: "starter"})
	rec := httptest.NewRecorder()
	h.HandleOpenPack(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "idempotencykey")
}

func TestHandleOpenPack_ServiceErrorMapping(t *testing.T) {
	InitValidator()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unknown pack", domain.ErrUnknownPack, http.StatusNotFound, domain.ErrMsgUnknownPack},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusPaymentRequired, domain.ErrMsgInsufficientFunds},
		{"idempotency conflict", domain.ErrIdempotencyConflict, http.StatusConflict, domain.ErrMsgIdempotencyConflict},
		{"empty rarity pool", domain.ErrEmptyRarityPool, http.StatusInternalServerError, ErrMsgCatalogMisconfigured},
		{"storage failure", domain.ErrStorage, http.StatusInternalServerError, ErrMsgInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewOpeningHandler(&fakeService{openErr: tc.err})

			req := ownedRequest(t, "POST", "/api/v1/pack/open", OpenPackRequest{
				PackID:         "starter",
				IdempotencyKey: "key-1",
			})
			rec := httptest.NewRecorder()
			h.HandleOpenPack(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp.Error)
		})
	}
}

func TestHandleGetPending_ReturnsStagedOpening(t *testing.T) {
	fake := &fakeService{pending: &domain.PendingOpening{OpeningID: "op-1", PackID: "starter"}}
	h := NewOpeningHandler(fake)

	req := ownedRequest(t, "GET", "/api/v1/opening/pending", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var pending domain.PendingOpening
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, "op-1", pending.OpeningID)
}

func TestHandleGetPending_NotFoundWhenNoneStaged(t *testing.T) {
	h := NewOpeningHandler(&fakeService{pending: nil})

	req := ownedRequest(t, "GET", "/api/v1/opening/pending", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPending(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrMsgNoPendingOpening, resp.Error)
}

func TestHandleCommitCollection_Success(t *testing.T) {
	InitValidator()
	fake := &fakeService{view: &opening.InventoryView{Policy: "shards"}}
	h := NewOpeningHandler(fake)

	req := ownedRequest(t, "POST", "/api/v1/opening/commit", CommitCollectionRequest{
		ItemIDs: []string{"c1", "c2"},
	})
	rec := httptest.NewRecorder()
	h.HandleCommitCollection(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c1", "c2"}, fake.gotItemIDs)
}

func TestHandleCommitCollection_EmptySelectionRejected(t *testing.T) {
	InitValidator()
	h := NewOpeningHandler(&fakeService{})

	req := ownedRequest(t, "POST", "/api/v1/opening/commit", CommitCollectionRequest{ItemIDs: []string{}})
	rec := httptest.NewRecorder()
	h.HandleCommitCollection(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCommitCollection_NoMatchingItems(t *testing.T) {
	InitValidator()
	h := NewOpeningHandler(&fakeService{viewErr: domain.ErrNoMatchingItems})

	req := ownedRequest(t, "POST", "/api/v1/opening/commit", CommitCollectionRequest{
		ItemIDs: []string{"ghost"},
	})
	rec := httptest.NewRecorder()
	h.HandleCommitCollection(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCommitCollection_NoPendingOpening(t *testing.T) {
	InitValidator()
	h := NewOpeningHandler(&fakeService{viewErr: domain.ErrNoPendingOpening})

	req := ownedRequest(t, "POST", "/api/v1/opening/commit", CommitCollectionRequest{
		ItemIDs: []string{"c1"},
	})
	rec := httptest.NewRecorder()
	h.HandleCommitCollection(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetInventory_Success(t *testing.T) {
	fake := &fakeService{view: &opening.InventoryView{
		Balance: domain.Balance{"COIN": 400},
		Policy:  "dupe_credit",
	}}
	h := NewOpeningHandler(fake)

	req := ownedRequest(t, "GET", "/api/v1/inventory", nil)
	rec := httptest.NewRecorder()
	h.HandleGetInventory(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var view opening.InventoryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(400), view.Balance["COIN"])
	assert.Equal(t, "dupe_credit", view.Policy)
}
