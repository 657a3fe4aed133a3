package domain

// Item is an immutable catalog entry, uniquely identified by ID.
type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rarity Rarity   `json:"rarity"`
	Kind   ItemKind `json:"kind"`
	Art    string   `json:"art,omitempty"`
}

// Rarity is the draw tier of an item.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether r is one of the declared rarity tiers.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// ItemKind classifies what a catalog item is within the collection hierarchy.
type ItemKind string

const (
	KindStem       ItemKind = "stem"
	KindCover      ItemKind = "cover"
	KindFragment   ItemKind = "fragment"
	KindUnreleased ItemKind = "unreleased"
	KindCharacter  ItemKind = "character"
)
