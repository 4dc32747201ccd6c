package services

import (
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
)

// RepositoryProvider bundles the persistence ports a storage adapter exposes.
// Both the pgsql and the in-memory adapter produce one of these.
type RepositoryProvider struct {
	Tenant  portsrepo.TenantRepository
	Account portsrepo.AccountRepository
	Ledger  portsrepo.LedgerRepository
	Invoice portsrepo.InvoiceRepository
	Bill    portsrepo.BillRepository
	Banking portsrepo.BankingRepository
}

// NewServiceContainer wires the services over a repository provider. The
// ledger service is built first because the document services post through
// it.
func NewServiceContainer(repos RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.Account, repos.Tenant)
	ledgerSvc := NewLedgerService(repos.Ledger, accountSvc)

	return &portssvc.ServiceContainer{
		Tenant:    NewTenantService(repos.Tenant, repos.Account),
		Account:   accountSvc,
		Ledger:    ledgerSvc,
		Reporting: NewReportingService(repos.Ledger, repos.Invoice, accountSvc),
		Invoice:   NewInvoiceService(repos.Invoice, repos.Account, ledgerSvc),
		Bill:      NewBillService(repos.Bill, repos.Account, ledgerSvc),
		Banking:   NewBankingService(repos.Banking, accountSvc, ledgerSvc),
	}
}
