package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// bankingService manages imported bank statement lines and reconciliation.
// Imported transactions never touch the ledger themselves; reconciliation
// links them to journal entries posted through the regular path.
type bankingService struct {
	bankingRepo portsrepo.BankingRepository
	accountSvc  portssvc.AccountSvcFacade
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewBankingService creates the banking service.
func NewBankingService(bankingRepo portsrepo.BankingRepository, accountSvc portssvc.AccountSvcFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.BankingSvcFacade {
	return &bankingService{
		bankingRepo: bankingRepo,
		accountSvc:  accountSvc,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.BankingSvcFacade = (*bankingService)(nil)

// ImportTransactions stores already-parsed statement lines against a bank
// account. All lines land as PENDING.
func (s *bankingService) ImportTransactions(ctx context.Context, tenantID string, req dto.ImportBankTransactionsRequest) ([]domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByID(ctx, tenantID, req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bank account %s: %w", req.BankAccountID, err)
	}
	if account.Type != domain.Asset {
		return nil, fmt.Errorf("%w: account %q is %s, bank imports require an asset account", apperrors.ErrValidation, account.Code, account.Type)
	}

	now := time.Now().UTC()
	txns := make([]domain.BankTransaction, len(req.Transactions))
	for i, line := range req.Transactions {
		txns[i] = domain.BankTransaction{
			TransactionID: uuid.NewString(),
			TenantID:      tenantID,
			BankAccountID: account.AccountID,
			Date:          domain.Date(line.Date),
			Description:   line.Description,
			AmountCents:   line.AmountCents,
			Status:        domain.BankTxnPending,
			CreatedAt:     now,
		}
	}

	if err := s.bankingRepo.SaveBankTransactions(ctx, txns); err != nil {
		logger.Error("Failed to import bank transactions", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to import bank transactions: %w", err)
	}

	logger.Info("Bank transactions imported", slog.String("bank_account_id", account.AccountID), slog.Int("count", len(txns)))
	return txns, nil
}

// ListUnreconciled lists the tenant's pending bank transactions.
func (s *bankingService) ListUnreconciled(ctx context.Context, tenantID string) ([]domain.BankTransaction, error) {
	txns, err := s.bankingRepo.ListBankTransactionsByStatus(ctx, tenantID, domain.BankTxnPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list unreconciled transactions: %w", err)
	}
	return txns, nil
}

// ReconcileTransaction matches a pending bank transaction to a posted journal
// entry.
func (s *bankingService) ReconcileTransaction(ctx context.Context, tenantID, transactionID, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.bankingRepo.FindBankTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find bank transaction %s: %w", transactionID, err)
	}
	if txn.TenantID != tenantID {
		return fmt.Errorf("bank transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	if txn.Status != domain.BankTxnPending {
		return fmt.Errorf("%w: transaction already matched to entry %s", apperrors.ErrConflict, txn.MatchedEntryID)
	}

	// The matched entry must exist in this tenant's books.
	if _, err := s.ledgerSvc.GetEntry(ctx, tenantID, entryID); err != nil {
		return fmt.Errorf("failed to resolve journal entry %s: %w", entryID, err)
	}

	if err := s.bankingRepo.MarkBankTransactionMatched(ctx, transactionID, entryID); err != nil {
		logger.Error("Failed to reconcile bank transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to reconcile bank transaction: %w", err)
	}

	logger.Info("Bank transaction reconciled", slog.String("transaction_id", transactionID), slog.String("entry_id", entryID))
	return nil
}

// CreateBankRule adds a description-matching rule.
func (s *bankingService) CreateBankRule(ctx context.Context, tenantID string, req dto.CreateBankRuleRequest) (*domain.BankRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, req.TargetAccountID); err != nil {
		return nil, fmt.Errorf("failed to resolve target account %s: %w", req.TargetAccountID, err)
	}

	rule := domain.BankRule{
		RuleID:          uuid.NewString(),
		TenantID:        tenantID,
		Name:            req.Name,
		Pattern:         req.Pattern,
		TargetAccountID: req.TargetAccountID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.bankingRepo.SaveBankRule(ctx, rule); err != nil {
		logger.Error("Failed to save bank rule", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank rule: %w", err)
	}

	logger.Info("Bank rule created", slog.String("rule_id", rule.RuleID), slog.String("pattern", rule.Pattern))
	return &rule, nil
}

// ListBankRules lists a tenant's rules.
func (s *bankingService) ListBankRules(ctx context.Context, tenantID string) ([]domain.BankRule, error) {
	rules, err := s.bankingRepo.ListBankRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank rules: %w", err)
	}
	return rules, nil
}

// DeleteBankRule removes a rule.
func (s *bankingService) DeleteBankRule(ctx context.Context, tenantID, ruleID string) error {
	rules, err := s.bankingRepo.ListBankRules(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list bank rules: %w", err)
	}
	for _, rule := range rules {
		if rule.RuleID == ruleID {
			if err := s.bankingRepo.DeleteBankRule(ctx, ruleID); err != nil {
				return fmt.Errorf("failed to delete bank rule: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bank rule %s: %w", ruleID, apperrors.ErrNotFound)
}

// SuggestRule returns the first rule whose pattern appears in the description,
// case-insensitively. Rules are checked in creation order; nil result with nil
// error means no rule matched.
func (s *bankingService) SuggestRule(ctx context.Context, tenantID, description string) (*domain.BankRule, error) {
	rules, err := s.bankingRepo.ListBankRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank rules: %w", err)
	}

	haystack := strings.ToLower(description)
	for _, rule := range rules {
		if strings.Contains(haystack, strings.ToLower(rule.Pattern)) {
			matched := rule
			return &matched, nil
		}
	}
	return nil, nil
}
