// Package postgres implements the durable Inventory store. Owner state is
// stored as a single JSONB document per owner; SELECT ... FOR UPDATE gives
// each owner's read-modify-write an exclusive critical section.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
	"github.com/stemcrate/StemCrate_Go/internal/logger"
)

// InventoryRepository implements repository.Inventory for PostgreSQL.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetOwnerState returns the owner's state, or a fresh empty state if the
// owner has never been written.
func (r *InventoryRepository) GetOwnerState(ctx context.Context, ownerID string) (*domain.OwnerState, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM owner_states WHERE owner_id = $1`, ownerID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewOwnerState(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get owner state: %v", domain.ErrStorage, err)
	}
	return decodeState(ownerID, data)
}

// UpdateOwnerState applies fn inside a transaction holding the owner's row
// lock. A failed fn rolls the transaction back, leaving no partial change.
func (r *InventoryRepository) UpdateOwnerState(ctx context.Context, ownerID string, fn func(st *domain.OwnerState) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrStorage, err)
	}
	defer safeRollback(ctx, tx)

	// Ensure the row exists so FOR UPDATE has something to lock.
	_, err = tx.Exec(ctx,
		`INSERT INTO owner_states (owner_id, state)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_id) DO NOTHING`,
		ownerID, mustEncode(domain.NewOwnerState(ownerID)))
	if err != nil {
		return fmt.Errorf("%w: failed to ensure owner row: %v", domain.ErrStorage, err)
	}

	var data []byte
	err = tx.QueryRow(ctx,
		`SELECT state FROM owner_states WHERE owner_id = $1 FOR UPDATE`, ownerID).Scan(&data)
	if err != nil {
		return fmt.Errorf("%w: failed to lock owner state: %v", domain.ErrStorage, err)
	}

	state, err := decodeState(ownerID, data)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: failed to encode owner state: %v", domain.ErrStorage, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE owner_states SET state = $2, updated_at = NOW() WHERE owner_id = $1`,
		ownerID, encoded)
	if err != nil {
		return fmt.Errorf("%w: failed to update owner state: %v", domain.ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit owner state: %v", domain.ErrStorage, err)
	}
	return nil
}

// DeleteOwnerState removes all state for the owner.
func (r *InventoryRepository) DeleteOwnerState(ctx context.Context, ownerID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM owner_states WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete owner state: %v", domain.ErrStorage, err)
	}
	return nil
}

func decodeState(ownerID string, data []byte) (*domain.OwnerState, error) {
	state := &domain.OwnerState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: failed to decode owner state: %v", domain.ErrStorage, err)
	}
	state.OwnerID = ownerID
	if state.Balance == nil {
		state.Balance = domain.Balance{}
	}
	if state.Unlocks == nil {
		state.Unlocks = map[string]domain.UnlockRecord{}
	}
	return state, nil
}

func mustEncode(st *domain.OwnerState) []byte {
	data, err := json.Marshal(st)
	if err != nil {
		// An empty OwnerState always marshals.
		panic(err)
	}
	return data
}

// safeRollback rolls back a transaction and logs any error other than the
// expected already-closed case.
func safeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
