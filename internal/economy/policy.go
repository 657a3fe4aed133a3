package economy

import "github.com/stemcrate/StemCrate_Go/internal/domain"

// Policy is the single pluggable reward model, selected once at configuration
// time. Exactly one of the two implementations runs per deployment; they are
// never combined.
type Policy interface {
	// Name identifies the policy in responses and logs.
	Name() string

	// OpenCredit returns the currency credit applied at open time for the
	// dupe-flagged draws of one opening.
	OpenCredit(results []domain.DrawResult) int64

	// CommitAccrual applies the deferred accounting for duplicate units
	// accepted at commit, mutating st. Returns shards gained and tokens
	// minted.
	CommitAccrual(duplicateUnits int, st *domain.EconomyState) (shards, tokens int)

	// GuaranteeAvailable reports whether a guarantee applies to the next
	// opening for an owner in state st.
	GuaranteeAvailable(st *domain.EconomyState) bool

	// ConsumeGuarantee spends one guarantee token after the selector used it.
	ConsumeGuarantee(st *domain.EconomyState)
}

// DupeCreditPolicy is the immediate reward model: each dupe-flagged draw
// credits a fixed amount at open time. No shards, no guarantee tokens.
type DupeCreditPolicy struct {
	CreditAmount int64
}

// Name implements Policy.
func (p DupeCreditPolicy) Name() string { return "dupe_credit" }

// OpenCredit implements Policy.
func (p DupeCreditPolicy) OpenCredit(results []domain.DrawResult) int64 {
	var credit int64
	for _, r := range results {
		if r.IsDupe {
			credit += p.CreditAmount
		}
	}
	return credit
}

// CommitAccrual implements Policy.
func (p DupeCreditPolicy) CommitAccrual(int, *domain.EconomyState) (int, int) { return 0, 0 }

// GuaranteeAvailable implements Policy.
func (p DupeCreditPolicy) GuaranteeAvailable(*domain.EconomyState) bool { return false }

// ConsumeGuarantee implements Policy.
func (p DupeCreditPolicy) ConsumeGuarantee(*domain.EconomyState) {}

// ShardPolicy is the deferred reward model: duplicates accepted at commit
// accrue shards, shard accumulation past the threshold mints guarantee
// tokens, and the selector spends tokens one at a time on future openings.
type ShardPolicy struct {
	ShardThreshold int
}

// Name implements Policy.
func (p ShardPolicy) Name() string { return "shards" }

// OpenCredit implements Policy.
func (p ShardPolicy) OpenCredit([]domain.DrawResult) int64 { return 0 }

// CommitAccrual implements Policy.
func (p ShardPolicy) CommitAccrual(duplicateUnits int, st *domain.EconomyState) (int, int) {
	if duplicateUnits <= 0 {
		return 0, 0
	}
	st.Shards += duplicateUnits

	tokens := 0
	for st.Shards >= p.ShardThreshold {
		st.Shards -= p.ShardThreshold
		st.Tokens++
		tokens++
	}
	return duplicateUnits, tokens
}

// GuaranteeAvailable implements Policy.
func (p ShardPolicy) GuaranteeAvailable(st *domain.EconomyState) bool { return st.Tokens > 0 }

// ConsumeGuarantee implements Policy.
func (p ShardPolicy) ConsumeGuarantee(st *domain.EconomyState) {
	if st.Tokens > 0 {
		st.Tokens--
	}
}
