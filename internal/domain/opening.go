package domain

import "time"

// PityState tracks consecutive draws since the last pity-rarity hit.
// Scoped per owner; persisted through the inventory store.
type PityState struct {
	SinceLast int `json:"since_last"`
}

// DrawResult is one resolved slot of an opening.
type DrawResult struct {
	Item          Item `json:"item"`
	IsDupe        bool `json:"is_dupe"`
	FromGuarantee bool `json:"from_guarantee,omitempty"`
	PityTriggered bool `json:"pity_triggered,omitempty"`
}

// PendingOpening is a staged, uncommitted draw result. At most one live
// instance exists per owner; a later opening replaces it.
type PendingOpening struct {
	OpeningID      string       `json:"opening_id"`
	OwnerID        string       `json:"owner_id"`
	PackID         string       `json:"pack_id"`
	IdempotencyKey string       `json:"idempotency_key"`
	CreatedAt      time.Time    `json:"created_at"`
	Results        []DrawResult `json:"results"`
}

// ContainsItem reports whether the staged results include itemID.
func (p *PendingOpening) ContainsItem(itemID string) bool {
	for _, r := range p.Results {
		if r.Item.ID == itemID {
			return true
		}
	}
	return false
}

// EconomyOutcome summarizes the economic effect of an opening.
type EconomyOutcome struct {
	Currency   string `json:"currency"`
	Charged    int64  `json:"charged"`
	DupeCredit int64  `json:"dupe_credit,omitempty"`
	NewBalance int64  `json:"new_balance"`
	Shards     int    `json:"shards"`
	Tokens     int    `json:"tokens"`
}

// OpeningResult is the response of a resolved (or cached) OpenPack call.
type OpeningResult struct {
	OpeningID string         `json:"opening_id"`
	Pack      Pack           `json:"pack"`
	Results   []DrawResult   `json:"results"`
	Economy   EconomyOutcome `json:"economy"`
	Pity      PityState      `json:"pity"`
}
