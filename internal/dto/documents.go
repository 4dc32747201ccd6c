package dto

// CreateCustomerRequest registers a customer to invoice.
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// InvoiceLineRequest is one billed item on an invoice.
type InvoiceLineRequest struct {
	Description      string `json:"description" binding:"required"`
	Quantity         int64  `json:"quantity" binding:"required,gt=0"`
	UnitPriceCents   int64  `json:"unitPriceCents" binding:"required,gt=0"`
	RevenueAccountID string `json:"revenueAccountID" binding:"required"`
}

// CreateInvoiceRequest creates a draft invoice; it posts nothing until
// approval.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customerID" binding:"required"`
	IssueDate  string               `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate    string               `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateSupplierRequest registers a supplier.
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// BillLineRequest is one billed item on a supplier bill.
type BillLineRequest struct {
	Description      string `json:"description" binding:"required"`
	Quantity         int64  `json:"quantity" binding:"required,gt=0"`
	UnitPriceCents   int64  `json:"unitPriceCents" binding:"required,gt=0"`
	ExpenseAccountID string `json:"expenseAccountID" binding:"required"`
}

// CreateBillRequest creates a draft bill.
type CreateBillRequest struct {
	SupplierID string            `json:"supplierID" binding:"required"`
	IssueDate  string            `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate    string            `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Lines      []BillLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPaymentRequest settles an approved invoice or bill through the bank
// account. BankAccountID defaults to the tenant's seeded bank account.
type RecordPaymentRequest struct {
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	BankAccountID string `json:"bankAccountID"`
}
