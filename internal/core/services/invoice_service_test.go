package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	tenantID  string
	byCode    map[string]domain.Account
	customer  *domain.Customer
}

func (s *InvoiceServiceTestSuite) SetupTest() {
	s.container, _ = newTestContainer()
	s.tenantID, s.byCode = seedTenant(s.T(), s.container)

	customer, err := s.container.Invoice.CreateCustomer(context.Background(), s.tenantID, dto.CreateCustomerRequest{
		Name:  "Globex",
		Email: "billing@globex.test",
	})
	s.Require().NoError(err)
	s.customer = customer
}

func (s *InvoiceServiceTestSuite) draftInvoice() *domain.Invoice {
	invoice, err := s.container.Invoice.CreateInvoice(context.Background(), s.tenantID, dto.CreateInvoiceRequest{
		CustomerID: s.customer.CustomerID,
		IssueDate:  "2025-04-01",
		DueDate:    "2025-04-30",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Consulting", Quantity: 10, UnitPriceCents: 15000, RevenueAccountID: s.byCode[domain.CodeRevenue].AccountID},
			{Description: "Support", Quantity: 1, UnitPriceCents: 50000, RevenueAccountID: s.byCode[domain.CodeRevenue].AccountID},
		},
	})
	s.Require().NoError(err)
	return invoice
}

func (s *InvoiceServiceTestSuite) balance(code string) int64 {
	balance, err := s.container.Ledger.GetBalance(context.Background(), s.tenantID, s.byCode[code].AccountID)
	s.Require().NoError(err)
	return balance
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_ComputesTotalsAndStartsDraft() {
	invoice := s.draftInvoice()

	s.Equal(domain.InvoiceDraft, invoice.Status)
	s.Equal(int64(200000), invoice.AmountCents)
	s.Contains(invoice.InvoiceNumber, "INV-")
	s.Equal("Globex", invoice.CustomerName)
	s.Require().Len(invoice.Lines, 2)
	s.Equal(int64(150000), invoice.Lines[0].AmountCents)

	// Drafts post nothing.
	s.Equal(int64(0), s.balance(domain.CodeAccountsReceivable))
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_OtherTenantCustomerHidden() {
	otherTenantID, _ := seedTenant(s.T(), s.container)

	_, err := s.container.Invoice.CreateInvoice(context.Background(), otherTenantID, dto.CreateInvoiceRequest{
		CustomerID: s.customer.CustomerID,
		IssueDate:  "2025-04-01",
		DueDate:    "2025-04-30",
		Lines: []dto.InvoiceLineRequest{
			{Description: "X", Quantity: 1, UnitPriceCents: 100, RevenueAccountID: s.byCode[domain.CodeRevenue].AccountID},
		},
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *InvoiceServiceTestSuite) TestApproveInvoice_PostsReceivableAndRevenue() {
	invoice := s.draftInvoice()

	approved, err := s.container.Invoice.ApproveInvoice(context.Background(), s.tenantID, invoice.InvoiceID)
	s.Require().NoError(err)
	s.Equal(domain.InvoiceAwaitingPayment, approved.Status)

	s.Equal(int64(200000), s.balance(domain.CodeAccountsReceivable))
	s.Equal(int64(-200000), s.balance(domain.CodeRevenue))

	entry, err := s.container.Ledger.GetEntry(context.Background(), s.tenantID, "invoice-"+invoice.InvoiceID+"-approval")
	s.Require().NoError(err)
	s.Equal("INVOICE", entry.SourceType)
	s.Equal(invoice.InvoiceID, entry.SourceID)
	s.Equal(domain.Date("2025-04-01"), entry.Date)
}

func (s *InvoiceServiceTestSuite) TestApproveInvoice_TwiceConflicts() {
	invoice := s.draftInvoice()

	_, err := s.container.Invoice.ApproveInvoice(context.Background(), s.tenantID, invoice.InvoiceID)
	s.Require().NoError(err)

	_, err = s.container.Invoice.ApproveInvoice(context.Background(), s.tenantID, invoice.InvoiceID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)

	// No double posting.
	s.Equal(int64(200000), s.balance(domain.CodeAccountsReceivable))
}

func (s *InvoiceServiceTestSuite) TestRecordPayment_SettlesIntoBank() {
	invoice := s.draftInvoice()
	_, err := s.container.Invoice.ApproveInvoice(context.Background(), s.tenantID, invoice.InvoiceID)
	s.Require().NoError(err)

	paid, err := s.container.Invoice.RecordInvoicePayment(context.Background(), s.tenantID, invoice.InvoiceID, dto.RecordPaymentRequest{
		Date: "2025-05-02",
	})
	s.Require().NoError(err)
	s.Equal(domain.InvoicePaid, paid.Status)

	s.Equal(int64(200000), s.balance(domain.CodeBank))
	s.Equal(int64(0), s.balance(domain.CodeAccountsReceivable))
}

func (s *InvoiceServiceTestSuite) TestRecordPayment_RequiresAwaitingPayment() {
	invoice := s.draftInvoice()

	_, err := s.container.Invoice.RecordInvoicePayment(context.Background(), s.tenantID, invoice.InvoiceID, dto.RecordPaymentRequest{
		Date: "2025-05-02",
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *InvoiceServiceTestSuite) TestVoidInvoice_DraftOnly() {
	invoice := s.draftInvoice()

	voided, err := s.container.Invoice.VoidInvoice(context.Background(), s.tenantID, invoice.InvoiceID)
	s.Require().NoError(err)
	s.Equal(domain.InvoiceVoid, voided.Status)

	approvedInvoice := s.draftInvoice()
	_, err = s.container.Invoice.ApproveInvoice(context.Background(), s.tenantID, approvedInvoice.InvoiceID)
	s.Require().NoError(err)

	_, err = s.container.Invoice.VoidInvoice(context.Background(), s.tenantID, approvedInvoice.InvoiceID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
