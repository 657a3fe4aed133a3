// Package memory provides an in-process Inventory store. It backs the
// anonymous-owner addressing mode and tests; state does not survive restarts.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Store is a map-backed inventory store with a per-owner lock so concurrent
// mutations for one owner serialize the same way the durable store does.
type Store struct {
	mu     sync.Mutex
	owners map[string]*ownerSlot
}

type ownerSlot struct {
	mu    sync.Mutex
	state *domain.OwnerState
}

// New creates an empty store.
func New() *Store {
	return &Store{owners: make(map[string]*ownerSlot)}
}

func (s *Store) slot(ownerID string) *ownerSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.owners[ownerID]; ok {
		return slot
	}
	slot := &ownerSlot{state: domain.NewOwnerState(ownerID)}
	s.owners[ownerID] = slot
	return slot
}

// GetOwnerState implements repository.Inventory.
func (s *Store) GetOwnerState(ctx context.Context, ownerID string) (*domain.OwnerState, error) {
	slot := s.slot(ownerID)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return cloneState(slot.state)
}

// UpdateOwnerState implements repository.Inventory. fn runs against a copy;
// the copy replaces the stored state only when fn succeeds.
func (s *Store) UpdateOwnerState(ctx context.Context, ownerID string, fn func(st *domain.OwnerState) error) error {
	slot := s.slot(ownerID)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	working, err := cloneState(slot.state)
	if err != nil {
		return err
	}
	if err := fn(working); err != nil {
		return err
	}
	slot.state = working
	return nil
}

// DeleteOwnerState implements repository.Inventory.
func (s *Store) DeleteOwnerState(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, ownerID)
	return nil
}

// cloneState deep-copies via JSON; owner state is small and already
// serialized this way for the durable store.
func cloneState(st *domain.OwnerState) (*domain.OwnerState, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	out := &domain.OwnerState{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if out.Balance == nil {
		out.Balance = domain.Balance{}
	}
	if out.Unlocks == nil {
		out.Unlocks = map[string]domain.UnlockRecord{}
	}
	return out, nil
}
