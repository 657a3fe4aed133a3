package economy

import (
	"fmt"

	"github.com/stemcrate/StemCrate_Go/internal/config"
	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// Debit removes amount of currency from st, failing with
// domain.ErrInsufficientFunds before any mutation when the balance does not
// cover it. The balance check runs strictly before the charge so a partial
// debit never occurs.
func Debit(st *domain.OwnerState, currency string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative debit amount", domain.ErrInvalidInput)
	}
	balance := st.Balance[currency]
	if balance < amount {
		return 0, fmt.Errorf("%w: have %d %s, need %d", domain.ErrInsufficientFunds, balance, currency, amount)
	}
	st.Balance[currency] = balance - amount
	return st.Balance[currency], nil
}

// Credit adds amount of currency to st.
func Credit(st *domain.OwnerState, currency string, amount int64) int64 {
	st.Balance[currency] += amount
	return st.Balance[currency]
}

// PolicyFromConfig builds the configured reward model. Exactly one model is
// active per deployment.
func PolicyFromConfig(cfg *config.Config) (Policy, error) {
	switch cfg.EconomyPolicy {
	case config.PolicyDupeCredit:
		return DupeCreditPolicy{CreditAmount: cfg.DupeCreditAmount}, nil
	case config.PolicyShards:
		return ShardPolicy{ShardThreshold: cfg.ShardThreshold}, nil
	default:
		return nil, fmt.Errorf("unknown economy policy %q", cfg.EconomyPolicy)
	}
}
