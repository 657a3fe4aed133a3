package opening

import (
	"sort"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// sortUnlocks orders unlock records by character id so responses built from
// the unlock map stay deterministic.
func sortUnlocks(unlocks []domain.UnlockRecord) {
	sort.Slice(unlocks, func(i, j int) bool {
		return unlocks[i].CharacterID < unlocks[j].CharacterID
	})
}
