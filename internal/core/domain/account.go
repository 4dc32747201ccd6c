package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the closed set of account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents one ledger bucket within a tenant's chart of accounts.
type Account struct {
	AccountID  string      `json:"accountID"`  // Immutable once assigned
	TenantID   string      `json:"tenantID"`   // Owning tenant
	Code       string      `json:"code"`       // Sortable, unique per tenant; canonical report order
	Name       string      `json:"name"`       // User-defined display name
	Type       AccountType `json:"type"`       // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	IsSystem   bool        `json:"isSystem"`   // Seeded accounts; protected from archival
	IsArchived bool        `json:"isArchived"` // Soft delete; archived accounts stay reportable
	CreatedAt  time.Time   `json:"createdAt"`
}

// System account codes seeded for every new tenant. Invoice and bill approval
// resolve their control accounts by these codes.
const (
	CodeBank               = "100"
	CodeAccountsReceivable = "110"
	CodeAccountsPayable    = "200"
	CodeEquity             = "300"
	CodeRevenue            = "400"
	CodeExpense            = "500"
)
