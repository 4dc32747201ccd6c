package domain

import "time"

// InvoiceStatus is the lifecycle state of a customer invoice.
type InvoiceStatus string

const (
	InvoiceDraft           InvoiceStatus = "DRAFT"
	InvoiceAwaitingPayment InvoiceStatus = "AWAITING_PAYMENT"
	InvoicePaid            InvoiceStatus = "PAID"
	InvoiceVoid            InvoiceStatus = "VOID"
)

// Customer is a party invoices are issued to.
type Customer struct {
	CustomerID string    `json:"customerID"`
	TenantID   string    `json:"tenantID"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Invoice is a customer invoice. Approval locks it and posts the journal
// entry (debit Accounts Receivable, credit revenue per line); payment posts
// debit bank, credit Accounts Receivable.
type Invoice struct {
	InvoiceID     string        `json:"invoiceID"`
	TenantID      string        `json:"tenantID"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CustomerID    string        `json:"customerID"`
	CustomerName  string        `json:"customerName,omitempty"`
	IssueDate     Date          `json:"issueDate"`
	DueDate       Date          `json:"dueDate"`
	Status        InvoiceStatus `json:"status"`
	AmountCents   int64         `json:"amountCents"`
	Lines         []InvoiceLine `json:"lines,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// InvoiceLine is one billed item; AmountCents = Quantity * UnitPriceCents.
type InvoiceLine struct {
	LineID           string `json:"lineID"`
	InvoiceID        string `json:"invoiceID"`
	Description      string `json:"description"`
	Quantity         int64  `json:"quantity"`
	UnitPriceCents   int64  `json:"unitPriceCents"`
	AmountCents      int64  `json:"amountCents"`
	RevenueAccountID string `json:"revenueAccountID"`
}
