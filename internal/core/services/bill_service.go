package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/money"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// billService manages suppliers and bills, the purchasing mirror of
// invoiceService: approval debits expense lines and credits Accounts Payable,
// payment debits Accounts Payable and credits the bank.
type billService struct {
	billRepo    portsrepo.BillRepository
	accountRepo portsrepo.AccountRepository
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewBillService creates the bill service.
func NewBillService(billRepo portsrepo.BillRepository, accountRepo portsrepo.AccountRepository, ledgerSvc portssvc.LedgerSvcFacade) portssvc.BillSvcFacade {
	return &billService{
		billRepo:    billRepo,
		accountRepo: accountRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

// CreateSupplier registers a supplier.
func (s *billService) CreateSupplier(ctx context.Context, tenantID string, req dto.CreateSupplierRequest) (*domain.Supplier, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	supplier := domain.Supplier{
		SupplierID: uuid.NewString(),
		TenantID:   tenantID,
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.billRepo.SaveSupplier(ctx, supplier); err != nil {
		logger.Error("Failed to save supplier", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}

	logger.Info("Supplier created", slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

// ListSuppliers lists a tenant's suppliers.
func (s *billService) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	suppliers, err := s.billRepo.ListSuppliers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// CreateBill creates a draft bill. Drafts post nothing to the ledger.
func (s *billService) CreateBill(ctx context.Context, tenantID string, req dto.CreateBillRequest) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	supplier, err := s.billRepo.FindSupplierByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier %s: %w", req.SupplierID, err)
	}
	if supplier.TenantID != tenantID {
		return nil, fmt.Errorf("supplier %s: %w", req.SupplierID, apperrors.ErrNotFound)
	}

	billID := uuid.NewString()
	lineAmounts := make([]int64, len(req.Lines))
	lines := make([]domain.BillLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		amount := lineReq.Quantity * lineReq.UnitPriceCents
		lineAmounts[i] = amount
		lines[i] = domain.BillLine{
			LineID:           uuid.NewString(),
			BillID:           billID,
			Description:      lineReq.Description,
			Quantity:         lineReq.Quantity,
			UnitPriceCents:   lineReq.UnitPriceCents,
			AmountCents:      amount,
			ExpenseAccountID: lineReq.ExpenseAccountID,
		}
	}
	totalCents := money.Sum(lineAmounts...)

	bill := domain.Bill{
		BillID:       billID,
		TenantID:     tenantID,
		BillNumber:   fmt.Sprintf("BILL-%06d", time.Now().UnixMilli()%1000000),
		SupplierID:   supplier.SupplierID,
		SupplierName: supplier.Name,
		IssueDate:    domain.Date(req.IssueDate),
		DueDate:      domain.Date(req.DueDate),
		Status:       domain.BillDraft,
		AmountCents:  totalCents,
		Lines:        lines,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		logger.Error("Failed to save bill", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	logger.Info("Bill drafted", slog.String("bill_id", billID), slog.String("bill_number", bill.BillNumber), slog.Int64("amount_cents", totalCents))
	return &bill, nil
}

// GetBill retrieves a bill with its lines.
func (s *billService) GetBill(ctx context.Context, tenantID, billID string) (*domain.Bill, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}
	if bill.TenantID != tenantID {
		return nil, fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}
	return bill, nil
}

// ListBills lists a tenant's bills.
func (s *billService) ListBills(ctx context.Context, tenantID string) ([]domain.Bill, error) {
	bills, err := s.billRepo.ListBills(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// ApproveBill locks a draft bill and posts its journal entry: debit each
// line's expense account, credit Accounts Payable for the total.
func (s *billService) ApproveBill(ctx context.Context, tenantID, billID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillDraft {
		return nil, fmt.Errorf("%w: bill status is %s, only drafts can be approved", apperrors.ErrConflict, bill.Status)
	}

	apAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeAccountsPayable)
	if err != nil {
		logger.Error("Accounts Payable control account missing", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve Accounts Payable account: %w", err)
	}

	entryLines := make([]dto.EntryLineRequest, 0, len(bill.Lines)+1)
	for _, line := range bill.Lines {
		entryLines = append(entryLines, dto.EntryLineRequest{
			AccountID:  line.ExpenseAccountID,
			DebitCents: line.AmountCents,
			Memo:       line.Description,
		})
	}
	entryLines = append(entryLines, dto.EntryLineRequest{
		AccountID:   apAccount.AccountID,
		CreditCents: bill.AmountCents,
	})

	if _, err := s.ledgerSvc.PostEntry(ctx, tenantID, dto.PostEntryRequest{
		EntryID:     fmt.Sprintf("bill-%s-approval", bill.BillID),
		Date:        string(bill.IssueDate),
		Description: fmt.Sprintf("Bill %s from %s", bill.BillNumber, bill.SupplierName),
		Lines:       entryLines,
		SourceType:  "BILL",
		SourceID:    bill.BillID,
	}); err != nil {
		return nil, fmt.Errorf("failed to post bill approval entry: %w", err)
	}

	if err := s.billRepo.UpdateBillStatus(ctx, billID, domain.BillAwaitingPayment); err != nil {
		logger.Error("Failed to update bill status after posting", slog.String("bill_id", billID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update bill status: %w", err)
	}

	bill.Status = domain.BillAwaitingPayment
	logger.Info("Bill approved", slog.String("bill_id", billID), slog.String("bill_number", bill.BillNumber))
	return bill, nil
}

// RecordBillPayment settles an approved bill: debit Accounts Payable, credit
// the bank account, then mark the bill paid.
func (s *billService) RecordBillPayment(ctx context.Context, tenantID, billID string, req dto.RecordPaymentRequest) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillAwaitingPayment {
		return nil, fmt.Errorf("%w: bill status is %s, expected %s", apperrors.ErrConflict, bill.Status, domain.BillAwaitingPayment)
	}

	bankAccountID := req.BankAccountID
	if bankAccountID == "" {
		bankAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeBank)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve bank account: %w", err)
		}
		bankAccountID = bankAccount.AccountID
	}

	apAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeAccountsPayable)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Accounts Payable account: %w", err)
	}

	if _, err := s.ledgerSvc.PostEntry(ctx, tenantID, dto.PostEntryRequest{
		EntryID:     fmt.Sprintf("bill-%s-payment", bill.BillID),
		Date:        req.Date,
		Description: fmt.Sprintf("Payment for bill %s", bill.BillNumber),
		Lines: []dto.EntryLineRequest{
			{AccountID: apAccount.AccountID, DebitCents: bill.AmountCents},
			{AccountID: bankAccountID, CreditCents: bill.AmountCents},
		},
		SourceType: "BILL_PAYMENT",
		SourceID:   bill.BillID,
	}); err != nil {
		return nil, fmt.Errorf("failed to post bill payment entry: %w", err)
	}

	if err := s.billRepo.UpdateBillStatus(ctx, billID, domain.BillPaid); err != nil {
		logger.Error("Failed to update bill status after payment", slog.String("bill_id", billID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update bill status: %w", err)
	}

	bill.Status = domain.BillPaid
	logger.Info("Bill payment recorded", slog.String("bill_id", billID), slog.Int64("amount_cents", bill.AmountCents))
	return bill, nil
}
