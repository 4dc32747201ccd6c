// Package ledger implements the double-entry posting engine: journal entry
// validation, materialized per-account running balances with correct
// backdating behaviour, and the pure read-side report derivations.
//
// State is a derived projection of the immutable journal entry log; it can
// always be rebuilt by replaying entries through Post, which is the
// correctness fallback for any materialized copy.
package ledger

import "github.com/finbooks/finbooks/internal/core/domain"

// State maps an account id to its materialized ledger line sequence, ordered
// by date ascending with same-day lines in original posting order.
type State map[string][]domain.LedgerLine

// NewState returns an empty ledger state.
func NewState() State {
	return make(State)
}

// AccountLedger returns the ordered line sequence for an account, empty if
// the account has no activity. The returned slice must not be mutated.
func AccountLedger(state State, accountID string) []domain.LedgerLine {
	lines := state[accountID]
	if lines == nil {
		return []domain.LedgerLine{}
	}
	return lines
}

// Balance returns the current balance of an account: the balance of its last
// ledger line, or 0 if it has none.
func Balance(state State, accountID string) int64 {
	lines := state[accountID]
	if len(lines) == 0 {
		return 0
	}
	return lines[len(lines)-1].BalanceCents
}

// BalanceAsOf returns the balance of the latest line dated on or before asOf,
// or 0 if there is none.
func BalanceAsOf(state State, accountID string, asOf domain.Date) int64 {
	var balance int64
	for _, line := range state[accountID] {
		if line.Date.After(asOf) {
			break
		}
		balance = line.BalanceCents
	}
	return balance
}

// ContainsEntry reports whether any account sequence carries a line for the
// given entry id.
func ContainsEntry(state State, entryID string) bool {
	for _, lines := range state {
		for _, line := range lines {
			if line.EntryID == entryID {
				return true
			}
		}
	}
	return false
}
