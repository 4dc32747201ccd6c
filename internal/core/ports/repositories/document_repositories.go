package repositories

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// InvoiceRepository stores customers and their invoices.
type InvoiceRepository interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error)

	// SaveInvoice persists an invoice header and its lines atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string) ([]domain.Invoice, error)
	// ListInvoicesByStatus feeds the aged receivables report
	// (status AWAITING_PAYMENT).
	ListInvoicesByStatus(ctx context.Context, tenantID string, status domain.InvoiceStatus) ([]domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error
}

// BillRepository stores suppliers and their bills.
type BillRepository interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error)

	SaveBill(ctx context.Context, bill domain.Bill) error
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, tenantID string) ([]domain.Bill, error)
	UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus) error
}

// BankingRepository stores imported bank transactions and reconciliation
// rules.
type BankingRepository interface {
	SaveBankTransactions(ctx context.Context, txns []domain.BankTransaction) error
	FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)
	ListBankTransactionsByStatus(ctx context.Context, tenantID string, status domain.BankTxnStatus) ([]domain.BankTransaction, error)
	MarkBankTransactionMatched(ctx context.Context, transactionID, matchedEntryID string) error

	SaveBankRule(ctx context.Context, rule domain.BankRule) error
	ListBankRules(ctx context.Context, tenantID string) ([]domain.BankRule, error)
	DeleteBankRule(ctx context.Context, ruleID string) error
}
