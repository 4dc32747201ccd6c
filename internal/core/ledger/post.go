package ledger

import (
	"fmt"
	"sort"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// Post applies a journal entry to the ledger state and returns the new state.
// The input state is never mutated; on any error it is returned untouched
// semantics-wise (the caller keeps using the old state).
//
// For every line the touched account's sequence is rebuilt: the candidate
// line is appended, the combined sequence is stable-sorted by date (same-day
// lines keep their insertion order), and balances are recomputed for the
// whole sequence from zero. Recomputing the full sequence instead of patching
// from the insertion point keeps backdated entries trivially correct: a line
// inserted into the middle of the history shifts every later balance by its
// signed delta because every later balance is simply recalculated.
func Post(entry domain.JournalEntry, state State, accountsByID map[string]domain.Account) (State, error) {
	if err := Validate(entry, accountsByID); err != nil {
		return nil, err
	}
	if ContainsEntry(state, entry.EntryID) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateEntryID, entry.EntryID)
	}

	next := make(State, len(state)+len(entry.Lines))
	for accountID, lines := range state {
		next[accountID] = lines
	}

	for _, line := range entry.Lines {
		existing := next[line.AccountID]

		combined := make([]domain.LedgerLine, 0, len(existing)+1)
		combined = append(combined, existing...)
		combined = append(combined, domain.LedgerLine{
			EntryID:     entry.EntryID,
			Date:        entry.Date,
			Description: entry.Description,
			DebitCents:  line.DebitCents,
			CreditCents: line.CreditCents,
		})

		// Stable: equal dates keep their relative insertion order, which is
		// what makes same-day posting order reproducible.
		sort.SliceStable(combined, func(i, j int) bool {
			return combined[i].Date.Before(combined[j].Date)
		})

		var running int64
		for i := range combined {
			running += combined[i].DebitCents - combined[i].CreditCents
			combined[i].BalanceCents = running
		}

		next[line.AccountID] = combined
	}

	return next, nil
}

// Replay rebuilds a ledger state from scratch by posting entries in order.
// It is the correctness fallback for any materialized state: the result of
// Replay over the full entry log must equal the incrementally maintained
// state.
func Replay(entries []domain.JournalEntry, accountsByID map[string]domain.Account) (State, error) {
	state := NewState()
	for _, entry := range entries {
		next, err := Post(entry, state, accountsByID)
		if err != nil {
			return nil, fmt.Errorf("replaying entry %q: %w", entry.EntryID, err)
		}
		state = next
	}
	return state, nil
}
