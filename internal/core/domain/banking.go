package domain

import "time"

// BankTxnStatus is the reconciliation state of an imported bank transaction.
type BankTxnStatus string

const (
	BankTxnPending BankTxnStatus = "PENDING"
	BankTxnMatched BankTxnStatus = "MATCHED"
)

// BankTransaction is a statement line imported from a bank feed. AmountCents
// is signed: positive for money in, negative for money out.
type BankTransaction struct {
	TransactionID  string        `json:"transactionID"`
	TenantID       string        `json:"tenantID"`
	BankAccountID  string        `json:"bankAccountID"`
	Date           Date          `json:"date"`
	Description    string        `json:"description"`
	AmountCents    int64         `json:"amountCents"`
	Status         BankTxnStatus `json:"status"`
	MatchedEntryID string        `json:"matchedEntryID,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// BankRule suggests a target account for imported transactions whose
// description contains Pattern (case-insensitive).
type BankRule struct {
	RuleID          string    `json:"ruleID"`
	TenantID        string    `json:"tenantID"`
	Name            string    `json:"name"`
	Pattern         string    `json:"pattern"`
	TargetAccountID string    `json:"targetAccountID"`
	CreatedAt       time.Time `json:"createdAt"`
}
