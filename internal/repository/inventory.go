package repository

import (
	"context"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Inventory defines per-owner state persistence. Implementations must make
// UpdateOwnerState atomic with respect to concurrent invocations for the
// same owner: the read-modify-write runs under an exclusive per-owner
// critical section (row lock, keyed mutex, or equivalent).
type Inventory interface {
	// GetOwnerState returns a copy of the owner's state, or a fresh empty
	// state if the owner has never been written.
	GetOwnerState(ctx context.Context, ownerID string) (*domain.OwnerState, error)

	// UpdateOwnerState applies fn to the owner's state under exclusive
	// access. If fn returns an error, no change is persisted; the debit,
	// pity mutation and pending stage of one opening therefore commit or
	// roll back as a unit.
	UpdateOwnerState(ctx context.Context, ownerID string, fn func(st *domain.OwnerState) error) error

	// DeleteOwnerState removes all state for the owner. Dev/test only.
	DeleteOwnerState(ctx context.Context, ownerID string) error
}
