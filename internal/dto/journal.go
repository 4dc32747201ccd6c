package dto

import "github.com/finbooks/finbooks/internal/core/money"

// EntryLineRequest is one side of a journal entry. Amounts are integer cents,
// or decimal strings like "120.50" in the *Amount fields; exactly one of
// debit/credit must be positive (enforced by the ledger validator, which
// produces the precise error kind).
type EntryLineRequest struct {
	AccountID    string `json:"accountID" binding:"required"`
	DebitCents   int64  `json:"debitCents" binding:"gte=0"`
	CreditCents  int64  `json:"creditCents" binding:"gte=0"`
	DebitAmount  string `json:"debitAmount"`
	CreditAmount string `json:"creditAmount"`
	Memo         string `json:"memo"`
}

// Cents resolves the line's amounts to integer cents. A decimal string, when
// present, takes precedence over the matching cents field; anything that does
// not land exactly on a cent is an error.
func (r EntryLineRequest) Cents() (debitCents, creditCents int64, err error) {
	debitCents, creditCents = r.DebitCents, r.CreditCents
	if r.DebitAmount != "" {
		if debitCents, err = money.ParseAmount(r.DebitAmount); err != nil {
			return 0, 0, err
		}
	}
	if r.CreditAmount != "" {
		if creditCents, err = money.ParseAmount(r.CreditAmount); err != nil {
			return 0, 0, err
		}
	}
	return debitCents, creditCents, nil
}

// PostEntryRequest posts a balanced journal entry. EntryID is optional: when
// set the caller owns idempotency (a retry with the same id is rejected as a
// duplicate); when empty the system assigns one.
type PostEntryRequest struct {
	EntryID     string             `json:"entryID"`
	Date        string             `json:"date" binding:"required,datetime=2006-01-02"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
	SourceType  string             `json:"sourceType"`
	SourceID    string             `json:"sourceID"`
}
