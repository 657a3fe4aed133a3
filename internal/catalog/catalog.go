package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Snapshot is an immutable, indexed view of the catalog. All reads within one
// logical operation must use a single snapshot so hot-reload never exposes a
// torn mix of versions.
type Snapshot struct {
	packs         map[string]domain.Pack
	tables        map[string]domain.DropTable
	items         map[string]domain.Item
	itemsByRarity map[domain.Rarity][]domain.Item
	characters    map[string]domain.Character

	releases     []domain.Release
	singles      []domain.Single
	fragmentSets []domain.FragmentSet
}

// Pack returns the pack definition for id, if present.
func (s *Snapshot) Pack(id string) (domain.Pack, bool) {
	p, ok := s.packs[id]
	return p, ok
}

// Table returns the drop table for id, if present.
func (s *Snapshot) Table(id string) (domain.DropTable, bool) {
	t, ok := s.tables[id]
	return t, ok
}

// Item returns the item for id, if present.
func (s *Snapshot) Item(id string) (domain.Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// ItemsByRarity returns all items of the given rarity in catalog order.
func (s *Snapshot) ItemsByRarity(r domain.Rarity) []domain.Item {
	return s.itemsByRarity[r]
}

// ItemCount returns the number of collectible items in the catalog.
func (s *Snapshot) ItemCount() int {
	return len(s.items)
}

// Character returns the unlockable character for id, if present.
func (s *Snapshot) Character(id string) (domain.Character, bool) {
	c, ok := s.characters[id]
	return c, ok
}

// Releases returns the release hierarchy in catalog order.
func (s *Snapshot) Releases() []domain.Release { return s.releases }

// Singles returns the singles in catalog order.
func (s *Snapshot) Singles() []domain.Single { return s.singles }

// FragmentSets returns the fragment sets in catalog order.
func (s *Snapshot) FragmentSets() []domain.FragmentSet { return s.fragmentSets }

// Store publishes the current catalog snapshot. Reload swaps the whole
// snapshot atomically; in-flight readers keep the version they started with.
type Store struct {
	current atomic.Pointer[Snapshot]
	path    string
}

// NewStore loads the catalog file at path and returns a ready store.
func NewStore(path string) (*Store, error) {
	st := &Store{path: path}
	if err := st.Reload(); err != nil {
		return nil, err
	}
	return st, nil
}

// NewStoreFromSnapshot wraps an already built snapshot. Reload is a no-op
// for stores built this way; callers publish new versions with Swap.
func NewStoreFromSnapshot(snap *Snapshot) *Store {
	st := &Store{}
	st.current.Store(snap)
	return st
}

// Swap atomically publishes snap as the current catalog version.
func (st *Store) Swap(snap *Snapshot) {
	st.current.Store(snap)
}

// Snapshot returns the current catalog version.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// Reload re-reads the catalog file and swaps in the new snapshot. On any
// load or validation error the previous snapshot stays in place.
func (st *Store) Reload() error {
	if st.path == "" {
		return nil
	}
	snap, err := LoadFile(st.path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	st.current.Store(snap)
	return nil
}
