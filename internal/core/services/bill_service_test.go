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

type BillServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	tenantID  string
	byCode    map[string]domain.Account
	supplier  *domain.Supplier
}

func (s *BillServiceTestSuite) SetupTest() {
	s.container, _ = newTestContainer()
	s.tenantID, s.byCode = seedTenant(s.T(), s.container)

	supplier, err := s.container.Bill.CreateSupplier(context.Background(), s.tenantID, dto.CreateSupplierRequest{
		Name: "Initech Supplies",
	})
	s.Require().NoError(err)
	s.supplier = supplier
}

func (s *BillServiceTestSuite) draftBill() *domain.Bill {
	bill, err := s.container.Bill.CreateBill(context.Background(), s.tenantID, dto.CreateBillRequest{
		SupplierID: s.supplier.SupplierID,
		IssueDate:  "2025-04-03",
		DueDate:    "2025-05-03",
		Lines: []dto.BillLineRequest{
			{Description: "Office rent", Quantity: 1, UnitPriceCents: 80000, ExpenseAccountID: s.byCode[domain.CodeExpense].AccountID},
		},
	})
	s.Require().NoError(err)
	return bill
}

func (s *BillServiceTestSuite) balance(code string) int64 {
	balance, err := s.container.Ledger.GetBalance(context.Background(), s.tenantID, s.byCode[code].AccountID)
	s.Require().NoError(err)
	return balance
}

func (s *BillServiceTestSuite) TestCreateBill_StartsDraft() {
	bill := s.draftBill()

	s.Equal(domain.BillDraft, bill.Status)
	s.Equal(int64(80000), bill.AmountCents)
	s.Contains(bill.BillNumber, "BILL-")
	s.Equal(int64(0), s.balance(domain.CodeAccountsPayable))
}

func (s *BillServiceTestSuite) TestApproveBill_PostsExpenseAndPayable() {
	bill := s.draftBill()

	approved, err := s.container.Bill.ApproveBill(context.Background(), s.tenantID, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.BillAwaitingPayment, approved.Status)

	s.Equal(int64(80000), s.balance(domain.CodeExpense))
	s.Equal(int64(-80000), s.balance(domain.CodeAccountsPayable))

	entry, err := s.container.Ledger.GetEntry(context.Background(), s.tenantID, "bill-"+bill.BillID+"-approval")
	s.Require().NoError(err)
	s.Equal("BILL", entry.SourceType)
}

func (s *BillServiceTestSuite) TestApproveBill_TwiceConflicts() {
	bill := s.draftBill()

	_, err := s.container.Bill.ApproveBill(context.Background(), s.tenantID, bill.BillID)
	s.Require().NoError(err)

	_, err = s.container.Bill.ApproveBill(context.Background(), s.tenantID, bill.BillID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Equal(int64(80000), s.balance(domain.CodeExpense))
}

func (s *BillServiceTestSuite) TestRecordPayment_SettlesFromBank() {
	bill := s.draftBill()
	_, err := s.container.Bill.ApproveBill(context.Background(), s.tenantID, bill.BillID)
	s.Require().NoError(err)

	paid, err := s.container.Bill.RecordBillPayment(context.Background(), s.tenantID, bill.BillID, dto.RecordPaymentRequest{
		Date: "2025-05-01",
	})
	s.Require().NoError(err)
	s.Equal(domain.BillPaid, paid.Status)

	s.Equal(int64(0), s.balance(domain.CodeAccountsPayable))
	s.Equal(int64(-80000), s.balance(domain.CodeBank))
}

func (s *BillServiceTestSuite) TestRecordPayment_RequiresAwaitingPayment() {
	bill := s.draftBill()

	_, err := s.container.Bill.RecordBillPayment(context.Background(), s.tenantID, bill.BillID, dto.RecordPaymentRequest{
		Date: "2025-05-01",
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
