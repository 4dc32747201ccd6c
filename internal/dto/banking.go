package dto

// BankTransactionLine is one imported statement line. AmountCents is signed:
// positive for money in, negative for money out.
type BankTransactionLine struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Description string `json:"description" binding:"required"`
	AmountCents int64  `json:"amountCents" binding:"required"`
}

// ImportBankTransactionsRequest imports already-parsed statement lines for a
// bank account. Parsing the upstream file format is the caller's concern.
type ImportBankTransactionsRequest struct {
	BankAccountID string                `json:"bankAccountID" binding:"required"`
	Transactions  []BankTransactionLine `json:"transactions" binding:"required,min=1,dive"`
}

// ReconcileTransactionRequest matches an imported bank transaction to a
// posted journal entry.
type ReconcileTransactionRequest struct {
	EntryID string `json:"entryID" binding:"required"`
}

// CreateBankRuleRequest adds a description-pattern rule that suggests a
// target account during reconciliation.
type CreateBankRuleRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	Pattern         string `json:"pattern" binding:"required"`
	TargetAccountID string `json:"targetAccountID" binding:"required"`
}
