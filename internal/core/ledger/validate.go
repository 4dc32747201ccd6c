package ledger

import (
	"fmt"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// Validate checks a journal entry against the double-entry invariants without
// touching any state. Checks run in a fixed order, each producing a distinct
// error; the first failure wins. Post calls this before mutating anything, so
// a failed entry leaves the ledger exactly as it was.
func Validate(entry domain.JournalEntry, accountsByID map[string]domain.Account) error {
	if entry.TenantID == "" {
		return fmt.Errorf("%w: tenantID", ErrMissingField)
	}
	if entry.EntryID == "" {
		return fmt.Errorf("%w: entryID", ErrMissingField)
	}
	if entry.Date == "" {
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	if _, err := domain.ParseDate(string(entry.Date)); err != nil {
		return fmt.Errorf("%w: date: %v", ErrMissingField, err)
	}
	if entry.Description == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if len(entry.Lines) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewLines, len(entry.Lines))
	}

	var totalDebits, totalCredits int64
	for i, line := range entry.Lines {
		if line.AccountID == "" {
			return fmt.Errorf("%w: line[%d].accountID", ErrMissingField, i)
		}
		account, ok := accountsByID[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: line[%d] references %q", ErrUnknownAccount, i, line.AccountID)
		}
		if account.TenantID != entry.TenantID {
			return fmt.Errorf("%w: line[%d] account %q", ErrTenantMismatch, i, line.AccountID)
		}
		if line.DebitCents < 0 {
			return fmt.Errorf("%w: line[%d].debitCents=%d", ErrInvalidAmount, i, line.DebitCents)
		}
		if line.CreditCents < 0 {
			return fmt.Errorf("%w: line[%d].creditCents=%d", ErrInvalidAmount, i, line.CreditCents)
		}
		hasDebit := line.DebitCents > 0
		hasCredit := line.CreditCents > 0
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: line[%d] debit=%d credit=%d", ErrAmbiguousLine, i, line.DebitCents, line.CreditCents)
		}
		totalDebits += line.DebitCents
		totalCredits += line.CreditCents
	}

	if totalDebits != totalCredits {
		return fmt.Errorf("%w: debits=%d credits=%d", ErrUnbalancedEntry, totalDebits, totalCredits)
	}
	return nil
}
