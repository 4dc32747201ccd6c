package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks/internal/adapters/database/memory"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	store     *memory.Store
	reporting portssvc.ReportingSvcFacade
	tenantID  string
	byCode    map[string]domain.Account
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.container, s.store = newTestContainer()
	s.tenantID, s.byCode = seedTenant(s.T(), s.container)

	// Pin today for deterministic ageing buckets.
	accountSvc := services.NewAccountService(s.store, s.store)
	s.reporting = services.NewReportingService(s.store, s.store, accountSvc,
		services.WithToday(func() domain.Date { return "2025-07-15" }))
}

func (s *ReportingServiceTestSuite) post(date, description string, lines ...dto.EntryLineRequest) {
	_, err := s.container.Ledger.PostEntry(context.Background(), s.tenantID, dto.PostEntryRequest{
		Date:        date,
		Description: description,
		Lines:       lines,
	})
	s.Require().NoError(err)
}

func (s *ReportingServiceTestSuite) seedActivity() {
	bank := s.byCode[domain.CodeBank].AccountID
	equity := s.byCode[domain.CodeEquity].AccountID
	revenue := s.byCode[domain.CodeRevenue].AccountID
	expense := s.byCode[domain.CodeExpense].AccountID
	payable := s.byCode[domain.CodeAccountsPayable].AccountID

	s.post("2025-01-01", "Owner funding",
		dto.EntryLineRequest{AccountID: bank, DebitCents: 100000},
		dto.EntryLineRequest{AccountID: equity, CreditCents: 100000})
	s.post("2025-02-01", "Cash sale",
		dto.EntryLineRequest{AccountID: bank, DebitCents: 20000},
		dto.EntryLineRequest{AccountID: revenue, CreditCents: 20000})
	s.post("2025-03-01", "Rent on account",
		dto.EntryLineRequest{AccountID: expense, DebitCents: 5000},
		dto.EntryLineRequest{AccountID: payable, CreditCents: 5000})
}

func (s *ReportingServiceTestSuite) TestTrialBalance_BucketsAndBalances() {
	s.seedActivity()

	rows, err := s.reporting.TrialBalance(context.Background(), s.tenantID)
	s.Require().NoError(err)

	var totalDebits, totalCredits int64
	byCode := make(map[string]domain.TrialBalanceRow)
	for _, row := range rows {
		byCode[row.Code] = row
		totalDebits += row.DebitCents
		totalCredits += row.CreditCents
	}

	s.Equal(totalDebits, totalCredits)
	s.Equal(int64(120000), byCode[domain.CodeBank].DebitCents)
	s.Equal(int64(100000), byCode[domain.CodeEquity].CreditCents)
	s.Equal(int64(20000), byCode[domain.CodeRevenue].CreditCents)
	s.Equal(int64(5000), byCode[domain.CodeExpense].DebitCents)
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss_PeriodFilter() {
	s.seedActivity()

	// Only February falls in the period: revenue without the March expense.
	report, err := s.reporting.ProfitAndLoss(context.Background(), s.tenantID, "2025-02-01", "2025-02-28")
	s.Require().NoError(err)
	s.Equal(int64(20000), report.TotalRevenueCents)
	s.Equal(int64(0), report.TotalExpensesCents)
	s.Equal(int64(20000), report.NetProfitCents)

	full, err := s.reporting.ProfitAndLoss(context.Background(), s.tenantID, "2025-01-01", "2025-12-31")
	s.Require().NoError(err)
	s.Equal(int64(15000), full.NetProfitCents)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_IdentityHolds() {
	s.seedActivity()

	report, err := s.reporting.BalanceSheet(context.Background(), s.tenantID, "2025-12-31")
	s.Require().NoError(err)

	s.Equal(report.TotalAssetsCents, report.TotalLiabilitiesCents+report.TotalEquityCents)
	s.Equal(int64(120000), report.TotalAssetsCents)
	s.Equal(int64(5000), report.TotalLiabilitiesCents)
	s.Equal(int64(15000), report.LifetimeNetIncomeCents)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_AsOfExcludesLaterActivity() {
	s.seedActivity()

	report, err := s.reporting.BalanceSheet(context.Background(), s.tenantID, "2025-01-31")
	s.Require().NoError(err)

	// Only the January funding has happened.
	s.Equal(int64(100000), report.TotalAssetsCents)
	s.Equal(int64(0), report.TotalLiabilitiesCents)
	s.Equal(report.TotalAssetsCents, report.TotalLiabilitiesCents+report.TotalEquityCents)
}

func (s *ReportingServiceTestSuite) TestAgedReceivables_BucketsByDaysOverdue() {
	ctx := context.Background()

	customer, err := s.container.Invoice.CreateCustomer(ctx, s.tenantID, dto.CreateCustomerRequest{Name: "Globex"})
	s.Require().NoError(err)

	// Due dates relative to the pinned today of 2025-07-15.
	approve := func(issue, due string, cents int64) {
		invoice, err := s.container.Invoice.CreateInvoice(ctx, s.tenantID, dto.CreateInvoiceRequest{
			CustomerID: customer.CustomerID,
			IssueDate:  issue,
			DueDate:    due,
			Lines: []dto.InvoiceLineRequest{
				{Description: "Work", Quantity: 1, UnitPriceCents: cents, RevenueAccountID: s.byCode[domain.CodeRevenue].AccountID},
			},
		})
		s.Require().NoError(err)
		_, err = s.container.Invoice.ApproveInvoice(ctx, s.tenantID, invoice.InvoiceID)
		s.Require().NoError(err)
	}

	approve("2025-07-01", "2025-07-31", 1000) // not yet due
	approve("2025-06-01", "2025-07-01", 2000) // 14 days overdue
	approve("2025-05-01", "2025-06-01", 3000) // 44 days overdue
	approve("2025-04-01", "2025-05-01", 4000) // 75 days overdue
	approve("2025-01-01", "2025-02-01", 5000) // far past due

	report, err := s.reporting.AgedReceivables(ctx, s.tenantID)
	s.Require().NoError(err)

	s.Len(report.Current, 1)
	s.Len(report.Days1To30, 1)
	s.Len(report.Days31To60, 1)
	s.Len(report.Days61To90, 1)
	s.Len(report.Days90Plus, 1)
	s.Equal(int64(15000), report.TotalCents)
	s.Equal(14, report.Days1To30[0].DaysOverdue)
}

func (s *ReportingServiceTestSuite) TestAgedReceivables_IgnoresPaidAndDraft() {
	ctx := context.Background()

	customer, err := s.container.Invoice.CreateCustomer(ctx, s.tenantID, dto.CreateCustomerRequest{Name: "Globex"})
	s.Require().NoError(err)

	draft, err := s.container.Invoice.CreateInvoice(ctx, s.tenantID, dto.CreateInvoiceRequest{
		CustomerID: customer.CustomerID,
		IssueDate:  "2025-07-01",
		DueDate:    "2025-07-10",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Draft work", Quantity: 1, UnitPriceCents: 9999, RevenueAccountID: s.byCode[domain.CodeRevenue].AccountID},
		},
	})
	s.Require().NoError(err)

	_, err = s.container.Invoice.ApproveInvoice(ctx, s.tenantID, draft.InvoiceID)
	s.Require().NoError(err)
	_, err = s.container.Invoice.RecordInvoicePayment(ctx, s.tenantID, draft.InvoiceID, dto.RecordPaymentRequest{Date: "2025-07-12"})
	s.Require().NoError(err)

	report, err := s.reporting.AgedReceivables(ctx, s.tenantID)
	s.Require().NoError(err)
	s.Equal(int64(0), report.TotalCents)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
