package domain

import "time"

// JournalEntry is an atomic, balanced financial event. Entries are immutable
// once posted; corrections are new reversing or adjusting entries.
type JournalEntry struct {
	EntryID     string        `json:"entryID"` // Unique across the tenant's entire history
	TenantID    string        `json:"tenantID"`
	Date        Date          `json:"date"`
	Description string        `json:"description"`
	Lines       []JournalLine `json:"lines"` // At least 2
	SourceType  string        `json:"sourceType,omitempty"` // Optional originating document kind (INVOICE, BILL, ...)
	SourceID    string        `json:"sourceID,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// JournalLine is one side of an entry, scoped to a single account. Exactly one
// of DebitCents/CreditCents is positive; both are non-negative integer cents.
type JournalLine struct {
	AccountID   string `json:"accountID"`
	DebitCents  int64  `json:"debitCents"`
	CreditCents int64  `json:"creditCents"`
	Memo        string `json:"memo,omitempty"`
}

// LedgerLine is the materialized per-account record produced by posting.
// For an account's date-ordered sequence, BalanceCents[i] ==
// BalanceCents[i-1] + DebitCents[i] - CreditCents[i], starting from zero.
type LedgerLine struct {
	EntryID      string `json:"entryID"`
	Date         Date   `json:"date"`
	Description  string `json:"description"`
	DebitCents   int64  `json:"debitCents"`
	CreditCents  int64  `json:"creditCents"`
	BalanceCents int64  `json:"balanceCents"`
}
