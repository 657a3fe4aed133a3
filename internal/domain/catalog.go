package domain

// DropRow is one weighted rarity row in a drop table.
// A row with PityEvery > 0 is the table's pity rarity: after PityEvery-1
// consecutive misses the next draw is forced to this rarity.
type DropRow struct {
	Rarity    Rarity `json:"rarity"`
	Weight    int    `json:"weight"`
	PityEvery int    `json:"pity_every,omitempty"`
}

// DropTable is an ordered sequence of weighted rarity rows.
type DropTable struct {
	ID   string    `json:"id"`
	Rows []DropRow `json:"rows"`
}

// TotalWeight returns the sum of all row weights.
func (t *DropTable) TotalWeight() int {
	total := 0
	for _, row := range t.Rows {
		total += row.Weight
	}
	return total
}

// PityRow returns the row carrying the pity mechanic, or nil if the table
// has none. Catalog validation guarantees at most one such row.
func (t *DropTable) PityRow() *DropRow {
	for i := range t.Rows {
		if t.Rows[i].PityEvery > 0 {
			return &t.Rows[i]
		}
	}
	return nil
}

// Price is a currency-tagged amount.
type Price struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// Pack is a purchasable pack definition referencing a drop table.
type Pack struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     Price  `json:"price"`
	DropTable string `json:"drop_table"`
	Draws     int    `json:"draws"`
}

// Song groups the stems that make it up.
type Song struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Stems []string `json:"stems"`
}

// Release is an EP: a set of songs plus a cover. Completing it (all stems of
// every song plus the cover) may unlock a reward character.
type Release struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Songs           []Song `json:"songs"`
	Cover           string `json:"cover"`
	RewardCharacter string `json:"reward_character,omitempty"`
}

// Single is a standalone song: stems plus a cover.
type Single struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Stems           []string `json:"stems"`
	Cover           string   `json:"cover"`
	RewardCharacter string   `json:"reward_character,omitempty"`
}

// FragmentSet is a completable group of fragment items.
type FragmentSet struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Fragments       []string `json:"fragments"`
	RewardCharacter string   `json:"reward_character,omitempty"`
}

// Character is an unlockable golden character.
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Art  string `json:"art,omitempty"`
}
