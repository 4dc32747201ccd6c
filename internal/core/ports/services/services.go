// Package services defines the service facades the transport layer depends
// on. Handlers receive these interfaces, never concrete services.
package services

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
)

// TenantSvcFacade manages the tenant registry.
type TenantSvcFacade interface {
	// CreateTenant registers a tenant and seeds its system chart of accounts.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string, includeArchived bool) ([]domain.Account, error)
	// AccountsByID returns the tenant's full chart keyed by account id, the
	// shape the ledger engine validates against.
	AccountsByID(ctx context.Context, tenantID string) (map[string]domain.Account, error)
	ArchiveAccount(ctx context.Context, tenantID, accountID string) error
}

// LedgerSvcFacade is the posting and ledger query surface. Every financial
// event in the system, whatever its origin, goes through PostEntry and its
// validation; there is no bypass.
type LedgerSvcFacade interface {
	PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID string) ([]domain.JournalEntry, error)
	GetBalance(ctx context.Context, tenantID, accountID string) (int64, error)
	GetAccountLedger(ctx context.Context, tenantID, accountID string) ([]domain.LedgerLine, error)
}

// ReportingSvcFacade derives the financial reports. All methods are pure
// reads over committed state.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error)
	ProfitAndLoss(ctx context.Context, tenantID string, start, end domain.Date) (*domain.PLReport, error)
	BalanceSheet(ctx context.Context, tenantID string, asOf domain.Date) (*domain.BalanceSheetReport, error)
	AgedReceivables(ctx context.Context, tenantID string) (*domain.AgedReceivablesReport, error)
}

// InvoiceSvcFacade manages customers and invoices. Approval and payment are
// the journal-posting transitions.
type InvoiceSvcFacade interface {
	CreateCustomer(ctx context.Context, tenantID string, req dto.CreateCustomerRequest) (*domain.Customer, error)
	ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error)
	CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string) ([]domain.Invoice, error)
	ApproveInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	RecordInvoicePayment(ctx context.Context, tenantID, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error)
	VoidInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
}

// BillSvcFacade manages suppliers and bills, the mirror of invoices.
type BillSvcFacade interface {
	CreateSupplier(ctx context.Context, tenantID string, req dto.CreateSupplierRequest) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error)
	CreateBill(ctx context.Context, tenantID string, req dto.CreateBillRequest) (*domain.Bill, error)
	GetBill(ctx context.Context, tenantID, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, tenantID string) ([]domain.Bill, error)
	ApproveBill(ctx context.Context, tenantID, billID string) (*domain.Bill, error)
	RecordBillPayment(ctx context.Context, tenantID, billID string, req dto.RecordPaymentRequest) (*domain.Bill, error)
}

// BankingSvcFacade manages imported bank transactions and reconciliation.
type BankingSvcFacade interface {
	ImportTransactions(ctx context.Context, tenantID string, req dto.ImportBankTransactionsRequest) ([]domain.BankTransaction, error)
	ListUnreconciled(ctx context.Context, tenantID string) ([]domain.BankTransaction, error)
	ReconcileTransaction(ctx context.Context, tenantID, transactionID, entryID string) error
	CreateBankRule(ctx context.Context, tenantID string, req dto.CreateBankRuleRequest) (*domain.BankRule, error)
	ListBankRules(ctx context.Context, tenantID string) ([]domain.BankRule, error)
	DeleteBankRule(ctx context.Context, tenantID, ruleID string) error
	SuggestRule(ctx context.Context, tenantID, description string) (*domain.BankRule, error)
}

// ServiceContainer bundles the service facades for dependency injection into
// the route registrations.
type ServiceContainer struct {
	Tenant    TenantSvcFacade
	Account   AccountSvcFacade
	Ledger    LedgerSvcFacade
	Reporting ReportingSvcFacade
	Invoice   InvoiceSvcFacade
	Bill      BillSvcFacade
	Banking   BankingSvcFacade
}
