package domain

// TrialBalanceRow is one account's ending balance split into debit/credit
// columns: positive raw balances show as debits, negative as credits.
type TrialBalanceRow struct {
	AccountID   string `json:"accountID"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	DebitCents  int64  `json:"debitCents"`
	CreditCents int64  `json:"creditCents"`
}

// PLRow is one revenue or expense account's net movement over the report
// period, already sign-adjusted for display.
type PLRow struct {
	AccountID   string `json:"accountID"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
}

// PLReport is the profit and loss statement for [Start, End] inclusive.
type PLReport struct {
	Start              Date    `json:"start"`
	End                Date    `json:"end"`
	Revenue            []PLRow `json:"revenue"`
	Expenses           []PLRow `json:"expenses"`
	TotalRevenueCents  int64   `json:"totalRevenueCents"`
	TotalExpensesCents int64   `json:"totalExpensesCents"`
	NetProfitCents     int64   `json:"netProfitCents"`
}

// BalanceSheetRow is one account's balance as of the report date,
// sign-adjusted for display.
type BalanceSheetRow struct {
	AccountID    string `json:"accountID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	BalanceCents int64  `json:"balanceCents"`
}

// BalanceSheetReport is the statement of financial position as of AsOf.
// TotalEquityCents includes LifetimeNetIncomeCents, the retained-earnings
// plug that makes Assets = Liabilities + Equity hold.
type BalanceSheetReport struct {
	AsOf                   Date              `json:"asOf"`
	Assets                 []BalanceSheetRow `json:"assets"`
	Liabilities            []BalanceSheetRow `json:"liabilities"`
	Equity                 []BalanceSheetRow `json:"equity"`
	TotalAssetsCents       int64             `json:"totalAssetsCents"`
	TotalLiabilitiesCents  int64             `json:"totalLiabilitiesCents"`
	TotalEquityCents       int64             `json:"totalEquityCents"`
	LifetimeNetIncomeCents int64             `json:"lifetimeNetIncomeCents"`
}

// AgedInvoice is one unpaid invoice placed into an ageing bucket.
type AgedInvoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	CustomerName  string `json:"customerName"`
	DueDate       Date   `json:"dueDate"`
	AmountCents   int64  `json:"amountCents"`
	DaysOverdue   int    `json:"daysOverdue"`
}

// AgedReceivablesReport partitions unpaid invoices by days overdue.
type AgedReceivablesReport struct {
	Current    []AgedInvoice `json:"current"`
	Days1To30  []AgedInvoice `json:"days1to30"`
	Days31To60 []AgedInvoice `json:"days31to60"`
	Days61To90 []AgedInvoice `json:"days61to90"`
	Days90Plus []AgedInvoice `json:"days90plus"`
	TotalCents int64         `json:"totalCents"`
}
