package domain

import "time"

// BillStatus is the lifecycle state of a supplier bill.
type BillStatus string

const (
	BillDraft           BillStatus = "DRAFT"
	BillAwaitingPayment BillStatus = "AWAITING_PAYMENT"
	BillPaid            BillStatus = "PAID"
	BillVoid            BillStatus = "VOID"
)

// Supplier is a party bills are received from.
type Supplier struct {
	SupplierID string    `json:"supplierID"`
	TenantID   string    `json:"tenantID"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Bill is a supplier bill, the mirror image of Invoice. Approval posts debit
// expense per line, credit Accounts Payable; payment posts debit Accounts
// Payable, credit bank.
type Bill struct {
	BillID       string     `json:"billID"`
	TenantID     string     `json:"tenantID"`
	BillNumber   string     `json:"billNumber"`
	SupplierID   string     `json:"supplierID"`
	SupplierName string     `json:"supplierName,omitempty"`
	IssueDate    Date       `json:"issueDate"`
	DueDate      Date       `json:"dueDate"`
	Status       BillStatus `json:"status"`
	AmountCents  int64      `json:"amountCents"`
	Lines        []BillLine `json:"lines,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// BillLine is one billed item; AmountCents = Quantity * UnitPriceCents.
type BillLine struct {
	LineID           string `json:"lineID"`
	BillID           string `json:"billID"`
	Description      string `json:"description"`
	Quantity         int64  `json:"quantity"`
	UnitPriceCents   int64  `json:"unitPriceCents"`
	AmountCents      int64  `json:"amountCents"`
	ExpenseAccountID string `json:"expenseAccountID"`
}
