package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/middleware"
)

// reportingService derives reports by loading the tenant's committed
// materialized state and running the pure ledger query functions over it.
// Nothing here mutates state.
type reportingService struct {
	ledgerRepo  portsrepo.LedgerRepository
	invoiceRepo portsrepo.InvoiceRepository
	accountSvc  portssvc.AccountSvcFacade

	// today is injectable for the aged receivables cutoff; defaults to
	// domain.Today.
	today func() domain.Date
}

// ReportingServiceOption configures the reporting service.
type ReportingServiceOption func(*reportingService)

// WithToday overrides the report-date clock; used by tests for a stable
// ageing cutoff.
func WithToday(today func() domain.Date) ReportingServiceOption {
	return func(s *reportingService) {
		s.today = today
	}
}

// NewReportingService creates the reporting service.
func NewReportingService(ledgerRepo portsrepo.LedgerRepository, invoiceRepo portsrepo.InvoiceRepository, accountSvc portssvc.AccountSvcFacade, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
		accountSvc:  accountSvc,
		today:       domain.Today,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) loadBooks(ctx context.Context, tenantID string) (ledger.State, map[string]domain.Account, error) {
	accountsByID, err := s.accountSvc.AccountsByID(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	state, err := s.ledgerRepo.StateForTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ledger state: %w", err)
	}
	return state, accountsByID, nil
}

// TrialBalance generates the trial balance from ending balances.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	state, accountsByID, err := s.loadBooks(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to load books for trial balance", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, err
	}

	rows := ledger.TrialBalance(state, accountsByID)
	logger.Info("Trial balance generated", slog.String("tenant_id", tenantID), slog.Int("row_count", len(rows)))
	return rows, nil
}

// ProfitAndLoss generates the P&L for [start, end] inclusive.
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, start, end domain.Date) (*domain.PLReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	state, accountsByID, err := s.loadBooks(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to load books for P&L", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, err
	}

	report := ledger.ProfitAndLoss(state, accountsByID, start, end)
	logger.Info("P&L generated",
		slog.String("tenant_id", tenantID),
		slog.String("start", string(start)),
		slog.String("end", string(end)),
		slog.Int64("net_profit_cents", report.NetProfitCents))
	return report, nil
}

// BalanceSheet generates the balance sheet as of a date.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf domain.Date) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	state, accountsByID, err := s.loadBooks(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to load books for balance sheet", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, err
	}

	report := ledger.BalanceSheet(state, accountsByID, asOf)
	if report.TotalAssetsCents != report.TotalLiabilitiesCents+report.TotalEquityCents {
		// The accounting identity failing means corrupted books, not a bad
		// request; surface it loudly.
		logger.Error("Balance sheet identity violated",
			slog.String("tenant_id", tenantID),
			slog.Int64("total_assets", report.TotalAssetsCents),
			slog.Int64("total_liabilities", report.TotalLiabilitiesCents),
			slog.Int64("total_equity", report.TotalEquityCents))
	}
	return report, nil
}

// AgedReceivables partitions unpaid invoices into ageing buckets by days
// overdue relative to today.
func (s *reportingService) AgedReceivables(ctx context.Context, tenantID string) (*domain.AgedReceivablesReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unpaid, err := s.invoiceRepo.ListInvoicesByStatus(ctx, tenantID, domain.InvoiceAwaitingPayment)
	if err != nil {
		logger.Error("Failed to list unpaid invoices", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list unpaid invoices: %w", err)
	}

	today := s.today()
	report := &domain.AgedReceivablesReport{
		Current:    []domain.AgedInvoice{},
		Days1To30:  []domain.AgedInvoice{},
		Days31To60: []domain.AgedInvoice{},
		Days61To90: []domain.AgedInvoice{},
		Days90Plus: []domain.AgedInvoice{},
	}

	for _, invoice := range unpaid {
		daysOverdue := int(today.Time().Sub(invoice.DueDate.Time()).Hours() / 24)
		item := domain.AgedInvoice{
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  invoice.CustomerName,
			DueDate:       invoice.DueDate,
			AmountCents:   invoice.AmountCents,
			DaysOverdue:   daysOverdue,
		}
		report.TotalCents += invoice.AmountCents

		switch {
		case daysOverdue <= 0:
			report.Current = append(report.Current, item)
		case daysOverdue <= 30:
			report.Days1To30 = append(report.Days1To30, item)
		case daysOverdue <= 60:
			report.Days31To60 = append(report.Days31To60, item)
		case daysOverdue <= 90:
			report.Days61To90 = append(report.Days61To90, item)
		default:
			report.Days90Plus = append(report.Days90Plus, item)
		}
	}

	logger.Info("Aged receivables generated", slog.String("tenant_id", tenantID), slog.Int("unpaid_count", len(unpaid)), slog.Int64("total_cents", report.TotalCents))
	return report, nil
}
