package domain

import "time"

// Balance maps currency code to amount. A validated debit never drives an
// amount negative.
type Balance map[string]int64

// InventoryRecord is one owned item with its acquired quantity.
type InventoryRecord struct {
	ItemID     string    `json:"item_id"`
	Rarity     Rarity    `json:"rarity"`
	Kind       ItemKind  `json:"kind"`
	Art        string    `json:"art,omitempty"`
	Quantity   int       `json:"quantity"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// EconomyState holds the deferred-reward accumulators for one owner.
type EconomyState struct {
	Shards int `json:"shards"`
	Tokens int `json:"tokens"`
}

// UnlockRecord marks a character unlocked for an owner. Insert-once; the
// (owner, character) pair is unique and never deleted.
type UnlockRecord struct {
	CharacterID string    `json:"character_id"`
	Source      string    `json:"source"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// OwnerState is the full mutable state of one owner, persisted and mutated
// as a unit so per-owner operations stay atomic.
type OwnerState struct {
	OwnerID string                  `json:"owner_id"`
	Balance Balance                 `json:"balance"`
	Items   []InventoryRecord       `json:"items"`
	Pity    PityState               `json:"pity"`
	Economy EconomyState            `json:"economy"`
	Pending *PendingOpening         `json:"pending,omitempty"`
	Unlocks map[string]UnlockRecord `json:"unlocks"`
}

// NewOwnerState returns an empty state for ownerID.
func NewOwnerState(ownerID string) *OwnerState {
	return &OwnerState{
		OwnerID: ownerID,
		Balance: Balance{},
		Unlocks: map[string]UnlockRecord{},
	}
}

// OwnedIDs returns the set of item IDs currently in inventory.
func (s *OwnerState) OwnedIDs() map[string]bool {
	owned := make(map[string]bool, len(s.Items))
	for _, rec := range s.Items {
		owned[rec.ItemID] = true
	}
	return owned
}

// FindItem returns the record index for itemID, or -1.
func (s *OwnerState) FindItem(itemID string) int {
	for i := range s.Items {
		if s.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity for item, appending a record on first
// acquisition. Returns true when the owner already held the item.
func (s *OwnerState) AddItem(item Item, now time.Time) bool {
	if i := s.FindItem(item.ID); i >= 0 {
		s.Items[i].Quantity++
		return true
	}
	s.Items = append(s.Items, InventoryRecord{
		ItemID:     item.ID,
		Rarity:     item.Rarity,
		Kind:       item.Kind,
		Art:        item.Art,
		Quantity:   1,
		AcquiredAt: now,
	})
	return false
}
