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

// invoiceService manages customers and invoices. It is a collaborator layered
// on top of the ledger: approval and payment build specific debit/credit line
// sets and submit them through PostEntry, never around it.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepository
	accountRepo portsrepo.AccountRepository
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewInvoiceService creates the invoicing service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepository, accountRepo portsrepo.AccountRepository, ledgerSvc portssvc.LedgerSvcFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateCustomer registers a customer.
func (s *invoiceService) CreateCustomer(ctx context.Context, tenantID string, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		TenantID:   tenantID,
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.invoiceRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// ListCustomers lists a tenant's customers.
func (s *invoiceService) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	customers, err := s.invoiceRepo.ListCustomers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CreateInvoice creates a draft invoice. Drafts post nothing to the ledger.
func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.invoiceRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %s: %w", req.CustomerID, err)
	}
	if customer.TenantID != tenantID {
		return nil, fmt.Errorf("customer %s: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	invoiceID := uuid.NewString()
	lineAmounts := make([]int64, len(req.Lines))
	lines := make([]domain.InvoiceLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		amount := lineReq.Quantity * lineReq.UnitPriceCents
		lineAmounts[i] = amount
		lines[i] = domain.InvoiceLine{
			LineID:           uuid.NewString(),
			InvoiceID:        invoiceID,
			Description:      lineReq.Description,
			Quantity:         lineReq.Quantity,
			UnitPriceCents:   lineReq.UnitPriceCents,
			AmountCents:      amount,
			RevenueAccountID: lineReq.RevenueAccountID,
		}
	}
	totalCents := money.Sum(lineAmounts...)

	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		TenantID:      tenantID,
		InvoiceNumber: fmt.Sprintf("INV-%06d", time.Now().UnixMilli()%1000000),
		CustomerID:    customer.CustomerID,
		CustomerName:  customer.Name,
		IssueDate:     domain.Date(req.IssueDate),
		DueDate:       domain.Date(req.DueDate),
		Status:        domain.InvoiceDraft,
		AmountCents:   totalCents,
		Lines:         lines,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice drafted", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber), slog.Int64("amount_cents", totalCents))
	return &invoice, nil
}

// GetInvoice retrieves an invoice with its lines.
func (s *invoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.TenantID != tenantID {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	return invoice, nil
}

// ListInvoices lists a tenant's invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// ApproveInvoice locks a draft invoice and posts its journal entry: debit
// Accounts Receivable for the total, credit each line's revenue account. The
// entry id is derived from the invoice id so a double approval is rejected by
// the duplicate-id check even if the status update raced.
func (s *invoiceService) ApproveInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice status is %s, only drafts can be approved", apperrors.ErrConflict, invoice.Status)
	}

	arAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeAccountsReceivable)
	if err != nil {
		logger.Error("Accounts Receivable control account missing", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve Accounts Receivable account: %w", err)
	}

	entryLines := make([]dto.EntryLineRequest, 0, len(invoice.Lines)+1)
	entryLines = append(entryLines, dto.EntryLineRequest{
		AccountID:  arAccount.AccountID,
		DebitCents: invoice.AmountCents,
	})
	for _, line := range invoice.Lines {
		entryLines = append(entryLines, dto.EntryLineRequest{
			AccountID:   line.RevenueAccountID,
			CreditCents: line.AmountCents,
			Memo:        line.Description,
		})
	}

	if _, err := s.ledgerSvc.PostEntry(ctx, tenantID, dto.PostEntryRequest{
		EntryID:     fmt.Sprintf("invoice-%s-approval", invoice.InvoiceID),
		Date:        string(invoice.IssueDate),
		Description: fmt.Sprintf("Invoice %s to %s", invoice.InvoiceNumber, invoice.CustomerName),
		Lines:       entryLines,
		SourceType:  "INVOICE",
		SourceID:    invoice.InvoiceID,
	}); err != nil {
		return nil, fmt.Errorf("failed to post invoice approval entry: %w", err)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceAwaitingPayment); err != nil {
		logger.Error("Failed to update invoice status after posting", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	invoice.Status = domain.InvoiceAwaitingPayment
	logger.Info("Invoice approved", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

// RecordInvoicePayment settles an approved invoice: debit the bank account,
// credit Accounts Receivable, then mark the invoice paid.
func (s *invoiceService) RecordInvoicePayment(ctx context.Context, tenantID, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceAwaitingPayment {
		return nil, fmt.Errorf("%w: invoice status is %s, expected %s", apperrors.ErrConflict, invoice.Status, domain.InvoiceAwaitingPayment)
	}

	bankAccountID := req.BankAccountID
	if bankAccountID == "" {
		bankAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeBank)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve bank account: %w", err)
		}
		bankAccountID = bankAccount.AccountID
	}

	arAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeAccountsReceivable)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Accounts Receivable account: %w", err)
	}

	if _, err := s.ledgerSvc.PostEntry(ctx, tenantID, dto.PostEntryRequest{
		EntryID:     fmt.Sprintf("invoice-%s-payment", invoice.InvoiceID),
		Date:        req.Date,
		Description: fmt.Sprintf("Payment for invoice %s", invoice.InvoiceNumber),
		Lines: []dto.EntryLineRequest{
			{AccountID: bankAccountID, DebitCents: invoice.AmountCents},
			{AccountID: arAccount.AccountID, CreditCents: invoice.AmountCents},
		},
		SourceType: "INVOICE_PAYMENT",
		SourceID:   invoice.InvoiceID,
	}); err != nil {
		return nil, fmt.Errorf("failed to post invoice payment entry: %w", err)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoicePaid); err != nil {
		logger.Error("Failed to update invoice status after payment", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	invoice.Status = domain.InvoicePaid
	logger.Info("Invoice payment recorded", slog.String("invoice_id", invoiceID), slog.Int64("amount_cents", invoice.AmountCents))
	return invoice, nil
}

// VoidInvoice voids a draft invoice. Approved invoices are already on the
// books; correcting them takes a reversing entry, not a void.
func (s *invoiceService) VoidInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice status is %s, only drafts can be voided", apperrors.ErrConflict, invoice.Status)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceVoid); err != nil {
		return nil, fmt.Errorf("failed to void invoice: %w", err)
	}
	invoice.Status = domain.InvoiceVoid
	return invoice, nil
}
