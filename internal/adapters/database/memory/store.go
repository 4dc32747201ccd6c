// Package memory is an in-memory storage adapter implementing every
// persistence port. It backs the service tests and the dev mode that runs
// without a database. A single store-wide mutex serializes writes, which
// trivially satisfies the ledger's per-account serialization contract.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	"github.com/finbooks/finbooks/internal/core/ports/repositories"
)

// Store holds all state in maps keyed by id. Methods hand out copies so
// callers can never mutate committed state in place.
type Store struct {
	mu sync.RWMutex

	tenants  map[string]domain.Tenant
	accounts map[string]domain.Account

	entries   map[string]domain.JournalEntry // key: tenantID + "/" + entryID
	sequences map[string][]domain.LedgerLine // key: accountID

	customers map[string]domain.Customer
	invoices  map[string]domain.Invoice
	suppliers map[string]domain.Supplier
	bills     map[string]domain.Bill

	bankTxns  map[string]domain.BankTransaction
	bankRules map[string]domain.BankRule

	// insertion counters keep list order deterministic
	entryOrder []string
	ruleOrder  []string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tenants:   make(map[string]domain.Tenant),
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]domain.JournalEntry),
		sequences: make(map[string][]domain.LedgerLine),
		customers: make(map[string]domain.Customer),
		invoices:  make(map[string]domain.Invoice),
		suppliers: make(map[string]domain.Supplier),
		bills:     make(map[string]domain.Bill),
		bankTxns:  make(map[string]domain.BankTransaction),
		bankRules: make(map[string]domain.BankRule),
	}
}

func entryKey(tenantID, entryID string) string {
	return tenantID + "/" + entryID
}

var (
	_ repositories.TenantRepository  = (*Store)(nil)
	_ repositories.AccountRepository = (*Store)(nil)
	_ repositories.LedgerRepository  = (*Store)(nil)
	_ repositories.InvoiceRepository = (*Store)(nil)
	_ repositories.BillRepository    = (*Store)(nil)
	_ repositories.BankingRepository = (*Store)(nil)
)

// --- TenantRepository ---

func (s *Store) SaveTenant(_ context.Context, tenant domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.TenantID]; ok {
		return fmt.Errorf("tenant %s: %w", tenant.TenantID, apperrors.ErrDuplicate)
	}
	s.tenants[tenant.TenantID] = tenant
	return nil
}

func (s *Store) FindTenantByID(_ context.Context, tenantID string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
	}
	return &tenant, nil
}

func (s *Store) ListTenants(_ context.Context) ([]domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenants := make([]domain.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		tenants = append(tenants, tenant)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].CreatedAt.Before(tenants[j].CreatedAt) })
	return tenants, nil
}

// --- AccountRepository ---

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAccountLocked(account)
}

func (s *Store) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range accounts {
		if err := s.saveAccountLocked(account); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveAccountLocked(account domain.Account) error {
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	for _, existing := range s.accounts {
		if existing.TenantID == account.TenantID && existing.Code == account.Code {
			return fmt.Errorf("account code %q: %w", account.Code, apperrors.ErrDuplicate)
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &account, nil
}

func (s *Store) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.TenantID == tenantID && account.Code == code {
			found := account
			return &found, nil
		}
	}
	return nil, fmt.Errorf("account code %q: %w", code, apperrors.ErrNotFound)
}

func (s *Store) FindAccountsByTenant(_ context.Context, tenantID string, includeArchived bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.TenantID != tenantID {
			continue
		}
		if account.IsArchived && !includeArchived {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) MarkAccountArchived(_ context.Context, accountID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	account.IsArchived = true
	s.accounts[accountID] = account
	return nil
}

// --- LedgerRepository ---

// SaveEntry runs the whole read-modify-write under the store mutex: no other
// post can interleave between loading the touched sequences, running the
// engine, and committing the result.
func (s *Store) SaveEntry(_ context.Context, entry domain.JournalEntry, post repositories.PostFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := ledger.NewState()
	for _, line := range entry.Lines {
		if lines, ok := s.sequences[line.AccountID]; ok {
			state[line.AccountID] = append([]domain.LedgerLine(nil), lines...)
		}
	}

	next, err := post(state)
	if err != nil {
		return err
	}

	key := entryKey(entry.TenantID, entry.EntryID)
	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
	}

	stored := entry
	stored.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	s.entries[key] = stored
	s.entryOrder = append(s.entryOrder, key)

	for _, line := range entry.Lines {
		s.sequences[line.AccountID] = append([]domain.LedgerLine(nil), next[line.AccountID]...)
	}
	return nil
}

func (s *Store) FindEntryByID(_ context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entryKey(tenantID, entryID)]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	found := entry
	found.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	return &found, nil
}

func (s *Store) ListEntries(_ context.Context, tenantID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.JournalEntry, 0)
	for _, key := range s.entryOrder {
		entry := s.entries[key]
		if entry.TenantID != tenantID {
			continue
		}
		copied := entry
		copied.Lines = append([]domain.JournalLine(nil), entry.Lines...)
		entries = append(entries, copied)
	}
	return entries, nil
}

func (s *Store) AccountLines(_ context.Context, accountID string) ([]domain.LedgerLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LedgerLine(nil), s.sequences[accountID]...), nil
}

func (s *Store) StateForTenant(_ context.Context, tenantID string) (ledger.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := ledger.NewState()
	for accountID, lines := range s.sequences {
		account, ok := s.accounts[accountID]
		if !ok || account.TenantID != tenantID || len(lines) == 0 {
			continue
		}
		state[accountID] = append([]domain.LedgerLine(nil), lines...)
	}
	return state, nil
}

// --- InvoiceRepository ---

func (s *Store) SaveCustomer(_ context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.CustomerID] = customer
	return nil
}

func (s *Store) FindCustomerByID(_ context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", customerID, apperrors.ErrNotFound)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(_ context.Context, tenantID string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customers := make([]domain.Customer, 0)
	for _, customer := range s.customers {
		if customer.TenantID == tenantID {
			customers = append(customers, customer)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].CreatedAt.Before(customers[j].CreatedAt) })
	return customers, nil
}

func (s *Store) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := invoice
	stored.Lines = append([]domain.InvoiceLine(nil), invoice.Lines...)
	s.invoices[invoice.InvoiceID] = stored
	return nil
}

func (s *Store) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoice, ok := s.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	found := invoice
	found.Lines = append([]domain.InvoiceLine(nil), invoice.Lines...)
	return &found, nil
}

func (s *Store) ListInvoices(_ context.Context, tenantID string) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listInvoicesLocked(tenantID, ""), nil
}

func (s *Store) ListInvoicesByStatus(_ context.Context, tenantID string, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listInvoicesLocked(tenantID, status), nil
}

func (s *Store) listInvoicesLocked(tenantID string, status domain.InvoiceStatus) []domain.Invoice {
	invoices := make([]domain.Invoice, 0)
	for _, invoice := range s.invoices {
		if invoice.TenantID != tenantID {
			continue
		}
		if status != "" && invoice.Status != status {
			continue
		}
		copied := invoice
		copied.Lines = append([]domain.InvoiceLine(nil), invoice.Lines...)
		invoices = append(invoices, copied)
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].CreatedAt.Before(invoices[j].CreatedAt) })
	return invoices
}

func (s *Store) UpdateInvoiceStatus(_ context.Context, invoiceID string, status domain.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	invoice.Status = status
	s.invoices[invoiceID] = invoice
	return nil
}

// --- BillRepository ---

func (s *Store) SaveSupplier(_ context.Context, supplier domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[supplier.SupplierID] = supplier
	return nil
}

func (s *Store) FindSupplierByID(_ context.Context, supplierID string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	supplier, ok := s.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, apperrors.ErrNotFound)
	}
	return &supplier, nil
}

func (s *Store) ListSuppliers(_ context.Context, tenantID string) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	suppliers := make([]domain.Supplier, 0)
	for _, supplier := range s.suppliers {
		if supplier.TenantID == tenantID {
			suppliers = append(suppliers, supplier)
		}
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].CreatedAt.Before(suppliers[j].CreatedAt) })
	return suppliers, nil
}

func (s *Store) SaveBill(_ context.Context, bill domain.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := bill
	stored.Lines = append([]domain.BillLine(nil), bill.Lines...)
	s.bills[bill.BillID] = stored
	return nil
}

func (s *Store) FindBillByID(_ context.Context, billID string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[billID]
	if !ok {
		return nil, fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}
	found := bill
	found.Lines = append([]domain.BillLine(nil), bill.Lines...)
	return &found, nil
}

func (s *Store) ListBills(_ context.Context, tenantID string) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bills := make([]domain.Bill, 0)
	for _, bill := range s.bills {
		if bill.TenantID != tenantID {
			continue
		}
		copied := bill
		copied.Lines = append([]domain.BillLine(nil), bill.Lines...)
		bills = append(bills, copied)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].CreatedAt.Before(bills[j].CreatedAt) })
	return bills, nil
}

func (s *Store) UpdateBillStatus(_ context.Context, billID string, status domain.BillStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.bills[billID]
	if !ok {
		return fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}
	bill.Status = status
	s.bills[billID] = bill
	return nil
}

// --- BankingRepository ---

func (s *Store) SaveBankTransactions(_ context.Context, txns []domain.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range txns {
		s.bankTxns[txn.TransactionID] = txn
	}
	return nil
}

func (s *Store) FindBankTransactionByID(_ context.Context, transactionID string) (*domain.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.bankTxns[transactionID]
	if !ok {
		return nil, fmt.Errorf("bank transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return &txn, nil
}

func (s *Store) ListBankTransactionsByStatus(_ context.Context, tenantID string, status domain.BankTxnStatus) ([]domain.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txns := make([]domain.BankTransaction, 0)
	for _, txn := range s.bankTxns {
		if txn.TenantID == tenantID && txn.Status == status {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Date != txns[j].Date {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].TransactionID < txns[j].TransactionID
	})
	return txns, nil
}

func (s *Store) MarkBankTransactionMatched(_ context.Context, transactionID, matchedEntryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.bankTxns[transactionID]
	if !ok {
		return fmt.Errorf("bank transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	txn.Status = domain.BankTxnMatched
	txn.MatchedEntryID = matchedEntryID
	s.bankTxns[transactionID] = txn
	return nil
}

func (s *Store) SaveBankRule(_ context.Context, rule domain.BankRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankRules[rule.RuleID] = rule
	s.ruleOrder = append(s.ruleOrder, rule.RuleID)
	return nil
}

func (s *Store) ListBankRules(_ context.Context, tenantID string) ([]domain.BankRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]domain.BankRule, 0)
	for _, ruleID := range s.ruleOrder {
		rule, ok := s.bankRules[ruleID]
		if ok && rule.TenantID == tenantID {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (s *Store) DeleteBankRule(_ context.Context, ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bankRules[ruleID]; !ok {
		return fmt.Errorf("bank rule %s: %w", ruleID, apperrors.ErrNotFound)
	}
	delete(s.bankRules, ruleID)
	return nil
}
