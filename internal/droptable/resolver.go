package droptable

import (
	"fmt"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Outcome is one resolved rarity draw.
type Outcome struct {
	Rarity        domain.Rarity
	PityTriggered bool
}

// ResolveRarity resolves one draw against table, advancing pity in place.
//
// When the table carries a pity row and the counter is about to reach the
// threshold, the pity rarity is forced and the counter resets. Otherwise a
// uniform roll in [0, totalWeight) walks the rows by cumulative weight; the
// counter resets on a pity-rarity hit and increments on a miss. The check
// runs per draw, so a multi-draw opening can trigger forced pity mid-sequence.
//
// rnd must return values in [0, 1).
func ResolveRarity(table *domain.DropTable, pity *domain.PityState, rnd func() float64) (Outcome, error) {
	total := table.TotalWeight()
	if total <= 0 {
		return Outcome{}, fmt.Errorf("%w: total weight %d", domain.ErrInvalidDropTable, total)
	}

	pityRow := table.PityRow()

	if pityRow != nil && pity.SinceLast+1 >= pityRow.PityEvery {
		pity.SinceLast = 0
		return Outcome{Rarity: pityRow.Rarity, PityTriggered: true}, nil
	}

	roll := int(rnd() * float64(total))
	if roll >= total {
		roll = total - 1
	}

	cumulative := 0
	for _, row := range table.Rows {
		cumulative += row.Weight
		if roll < cumulative {
			if pityRow != nil {
				if row.Rarity == pityRow.Rarity {
					pity.SinceLast = 0
				} else {
					pity.SinceLast++
				}
			}
			return Outcome{Rarity: row.Rarity}, nil
		}
	}

	// Unreachable for a validated table; guard against a torn definition.
	return Outcome{}, fmt.Errorf("%w: roll %d exceeded cumulative weight", domain.ErrInvalidDropTable, roll)
}
