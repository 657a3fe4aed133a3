package progress

import (
	"time"

	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// MaterializeUnlocks computes the unlock candidates for st's inventory,
// subtracts the characters already unlocked, and inserts the remainder as
// new records. The insert is a set-union keyed by character ID, so running
// it twice with no inventory change inserts zero records the second time.
// Returns the candidates actually inserted.
func MaterializeUnlocks(st *domain.OwnerState, snap *catalog.Snapshot, now time.Time) []domain.UnlockCandidate {
	candidates := Candidates(st.OwnedIDs(), snap)

	if st.Unlocks == nil {
		st.Unlocks = map[string]domain.UnlockRecord{}
	}

	var inserted []domain.UnlockCandidate
	for _, c := range candidates {
		if _, exists := st.Unlocks[c.CharacterID]; exists {
			continue
		}
		st.Unlocks[c.CharacterID] = domain.UnlockRecord{
			CharacterID: c.CharacterID,
			Source:      c.Source,
			UnlockedAt:  now,
		}
		inserted = append(inserted, c)
	}
	return inserted
}
