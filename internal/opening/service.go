package opening

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/domain"
	"github.com/stemcrate/StemCrate_Go/internal/droptable"
	"github.com/stemcrate/StemCrate_Go/internal/economy"
	"github.com/stemcrate/StemCrate_Go/internal/idempotency"
	"github.com/stemcrate/StemCrate_Go/internal/logger"
	"github.com/stemcrate/StemCrate_Go/internal/metrics"
	"github.com/stemcrate/StemCrate_Go/internal/progress"
	"github.com/stemcrate/StemCrate_Go/internal/repository"
)

// InventoryView is the owner-facing inventory summary with derived progress.
type InventoryView struct {
	Balance    domain.Balance           `json:"balance"`
	Items      []domain.InventoryRecord `json:"items"`
	Economy    domain.EconomyState      `json:"economy"`
	Policy     string                   `json:"policy"`
	Unlocks    []domain.UnlockRecord    `json:"unlocks"`
	NewUnlocks []domain.UnlockCandidate `json:"new_unlocks,omitempty"`
	Progress   *domain.ProgressReport   `json:"progress"`
}

// Service defines the pack opening interface
type Service interface {
	OpenPack(ctx context.Context, ownerID, packID, idempotencyKey string) (*domain.OpeningResult, error)
	GetPendingOpening(ctx context.Context, ownerID string) (*domain.PendingOpening, error)
	CommitCollection(ctx context.Context, ownerID string, itemIDs []string) (*InventoryView, error)
	GetInventoryWithProgress(ctx context.Context, ownerID string) (*InventoryView, error)
}

type service struct {
	catalog *catalog.Store
	store   repository.Inventory
	policy  economy.Policy
	idem    *idempotency.Cache[*domain.OpeningResult]
	rnd     func() float64
	now     func() time.Time
}

// NewService creates a new opening service
func NewService(catalogStore *catalog.Store, store repository.Inventory, policy economy.Policy) (Service, error) {
	idem, err := idempotency.New[*domain.OpeningResult](idempotency.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency cache: %w", err)
	}
	return &service{
		catalog: catalogStore,
		store:   store,
		policy:  policy,
		idem:    idem,
		rnd:     rand.Float64, //nolint:gosec // Game draw randomness, not security critical
		now:     time.Now,
	}, nil
}

// OpenPack resolves one pack purchase: debit, draws, staging. Repeat calls
// bearing the same idempotency key replay the stored result without side
// effects; the same key with a different pack fails with
// domain.ErrIdempotencyConflict.
func (s *service) OpenPack(ctx context.Context, ownerID, packID, idempotencyKey string) (*domain.OpeningResult, error) {
	log := logger.FromContext(ctx)

	if ownerID == "" || packID == "" || idempotencyKey == "" {
		return nil, fmt.Errorf("%w: owner, pack and idempotency key are required", domain.ErrInvalidInput)
	}

	// One snapshot for the whole operation; hot-reload never mixes versions.
	snap := s.catalog.Snapshot()

	pack, ok := snap.Pack(packID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPack, packID)
	}

	fingerprint := idempotency.Fingerprint(ownerID, packID)
	cacheKey := ownerID + "|" + idempotencyKey

	result, err := s.idem.Execute(ctx, cacheKey, fingerprint, func(ctx context.Context) (*domain.OpeningResult, error) {
		return s.resolveOpening(ctx, snap, ownerID, pack, idempotencyKey)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Pack opened", "owner", ownerID, "pack", packID, "opening", result.OpeningID)
	return result, nil
}

// resolveOpening runs the non-cached path. Debit, pity mutation, draws and
// staging all happen inside one atomic owner update: a storage failure after
// the debit rolls the whole opening back, which doubles as the refund path,
// and the idempotency key stays retryable because no entry is stored on
// error.
func (s *service) resolveOpening(ctx context.Context, snap *catalog.Snapshot, ownerID string, pack domain.Pack, idempotencyKey string) (*domain.OpeningResult, error) {
	table, ok := snap.Table(pack.DropTable)
	if !ok {
		return nil, fmt.Errorf("%w: pack %q references table %q", domain.ErrInvalidDropTable, pack.ID, pack.DropTable)
	}

	var result *domain.OpeningResult
	err := s.store.UpdateOwnerState(ctx, ownerID, func(st *domain.OwnerState) error {
		newBalance, err := economy.Debit(st, pack.Price.Currency, pack.Price.Amount)
		if err != nil {
			return err
		}

		guaranteeActive := s.policy.GuaranteeAvailable(&st.Economy)

		// Dupe detection runs against the inventory as snapshotted here;
		// it does not update mid-opening.
		owned := st.OwnedIDs()
		drawn := make(map[string]bool, pack.Draws)

		results := make([]domain.DrawResult, 0, pack.Draws)
		for i := 0; i < pack.Draws; i++ {
			outcome, err := droptable.ResolveRarity(&table, &st.Pity, s.rnd)
			if err != nil {
				return err
			}

			item, usedGuarantee, err := selectItem(snap, outcome.Rarity, owned, drawn, guaranteeActive, s.rnd)
			if err != nil {
				return err
			}
			if usedGuarantee {
				guaranteeActive = false
				s.policy.ConsumeGuarantee(&st.Economy)
				metrics.GuaranteesConsumed.Inc()
			}
			if outcome.PityTriggered {
				metrics.PityTriggered.Inc()
			}
			metrics.DrawsResolved.WithLabelValues(string(item.Rarity)).Inc()

			results = append(results, domain.DrawResult{
				Item:          item,
				IsDupe:        owned[item.ID],
				FromGuarantee: usedGuarantee,
				PityTriggered: outcome.PityTriggered,
			})
			drawn[item.ID] = true
		}

		var dupeCredit int64
		if credit := s.policy.OpenCredit(results); credit > 0 {
			dupeCredit = credit
			newBalance = economy.Credit(st, pack.Price.Currency, credit)
		}

		// Latest opening replaces any stale pending.
		pending := &domain.PendingOpening{
			OpeningID:      uuid.NewString(),
			OwnerID:        ownerID,
			PackID:         pack.ID,
			IdempotencyKey: idempotencyKey,
			CreatedAt:      s.now(),
			Results:        results,
		}
		st.Pending = pending

		result = &domain.OpeningResult{
			OpeningID: pending.OpeningID,
			Pack:      pack,
			Results:   results,
			Economy: domain.EconomyOutcome{
				Currency:   pack.Price.Currency,
				Charged:    pack.Price.Amount,
				DupeCredit: dupeCredit,
				NewBalance: newBalance,
				Shards:     st.Economy.Shards,
				Tokens:     st.Economy.Tokens,
			},
			Pity: st.Pity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PacksOpened.WithLabelValues(pack.ID).Inc()
	return result, nil
}

// GetPendingOpening returns the owner's staged opening, or nil when none.
func (s *service) GetPendingOpening(ctx context.Context, ownerID string) (*domain.PendingOpening, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	st, err := s.store.GetOwnerState(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return st.Pending, nil
}

// CommitCollection finalizes which staged items the owner keeps. Requested
// ids outside the staged set are dropped; each accepted occurrence adds one
// unit of quantity. On success the pending opening is cleared unconditionally
// (unselected items are discarded, not retryable) and unlock rewards are
// recomputed.
func (s *service) CommitCollection(ctx context.Context, ownerID string, itemIDs []string) (*InventoryView, error) {
	log := logger.FromContext(ctx)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one item id is required", domain.ErrInvalidInput)
	}

	snap := s.catalog.Snapshot()

	var view *InventoryView
	err := s.store.UpdateOwnerState(ctx, ownerID, func(st *domain.OwnerState) error {
		if st.Pending == nil {
			return domain.ErrNoPendingOpening
		}

		staged := make(map[string]domain.DrawResult, len(st.Pending.Results))
		for _, r := range st.Pending.Results {
			if _, ok := staged[r.Item.ID]; !ok {
				staged[r.Item.ID] = r
			}
		}

		var accepted []domain.DrawResult
		for _, id := range itemIDs {
			if r, ok := staged[id]; ok {
				accepted = append(accepted, r)
			}
		}
		if len(accepted) == 0 {
			return domain.ErrNoMatchingItems
		}

		now := s.now()
		duplicateUnits := 0
		for _, r := range accepted {
			if st.AddItem(r.Item, now) {
				duplicateUnits++
			}
		}

		s.policy.CommitAccrual(duplicateUnits, &st.Economy)

		st.Pending = nil

		inserted := progress.MaterializeUnlocks(st, snap, now)
		for _, c := range inserted {
			metrics.UnlocksMaterialized.WithLabelValues(c.Source).Inc()
		}

		view = s.buildView(st, snap)
		view.NewUnlocks = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CollectionsCommitted.Inc()
	log.Info("Collection committed", "owner", ownerID, "items", len(itemIDs))
	return view, nil
}

// GetInventoryWithProgress returns the owner's balance, inventory and
// derived collection progress.
func (s *service) GetInventoryWithProgress(ctx context.Context, ownerID string) (*InventoryView, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	snap := s.catalog.Snapshot()
	st, err := s.store.GetOwnerState(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.buildView(st, snap), nil
}

func (s *service) buildView(st *domain.OwnerState, snap *catalog.Snapshot) *InventoryView {
	view := &InventoryView{
		Balance:  st.Balance,
		Items:    st.Items,
		Economy:  st.Economy,
		Policy:   s.policy.Name(),
		Progress: progress.ComputeProgress(st.OwnedIDs(), snap),
	}
	for _, rec := range st.Unlocks {
		view.Unlocks = append(view.Unlocks, rec)
	}
	sortUnlocks(view.Unlocks)
	return view
}
