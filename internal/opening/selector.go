package opening

import (
	"fmt"

	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// selectItem picks the concrete item for one resolved rarity slot.
//
// Priority order:
//  1. with an active guarantee, an item of rarity the owner neither owns nor
//     has drawn this opening; failing that, any rarity outside that union
//  2. an item of rarity not yet drawn this opening
//  3. the unfiltered rarity pool (repeats within the opening become possible)
//
// An empty rarity pool at step 3 is a configuration error and rejects the
// draw outright. Returns whether the guarantee was consumed; it applies to
// at most one slot per opening, so the caller clears it on first use.
func selectItem(snap *catalog.Snapshot, rarity domain.Rarity, owned, drawn map[string]bool, guaranteeActive bool, rnd func() float64) (domain.Item, bool, error) {
	if guaranteeActive {
		excluded := func(id string) bool { return owned[id] || drawn[id] }
		if pool := filterPool(snap.ItemsByRarity(rarity), excluded); len(pool) > 0 {
			return pick(pool, rnd), true, nil
		}
		// Broaden to any rarity the owner is missing.
		var broad []domain.Item
		for _, r := range []domain.Rarity{domain.RarityLegendary, domain.RarityEpic, domain.RarityRare, domain.RarityUncommon, domain.RarityCommon} {
			broad = append(broad, filterPool(snap.ItemsByRarity(r), excluded)...)
		}
		if len(broad) > 0 {
			return pick(broad, rnd), true, nil
		}
		// Owner has everything; fall through to the normal path, token kept.
	}

	full := snap.ItemsByRarity(rarity)
	if len(full) == 0 {
		return domain.Item{}, false, fmt.Errorf("%w %q", domain.ErrEmptyRarityPool, rarity)
	}

	if pool := filterPool(full, func(id string) bool { return drawn[id] }); len(pool) > 0 {
		return pick(pool, rnd), false, nil
	}

	return pick(full, rnd), false, nil
}

func filterPool(items []domain.Item, excluded func(id string) bool) []domain.Item {
	var pool []domain.Item
	for _, it := range items {
		if !excluded(it.ID) {
			pool = append(pool, it)
		}
	}
	return pool
}

func pick(pool []domain.Item, rnd func() float64) domain.Item {
	i := int(rnd() * float64(len(pool)))
	if i >= len(pool) {
		i = len(pool) - 1
	}
	return pool[i]
}
