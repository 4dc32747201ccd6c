package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepository
	tenantRepo  portsrepo.TenantRepository
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepository, tenantRepo portsrepo.TenantRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		tenantRepo:  tenantRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount adds an account to the tenant's chart. Codes are unique per
// tenant; they drive the canonical report ordering.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("failed to resolve tenant %s: %w", tenantID, err)
	}

	accountType := domain.AccountType(req.Type)
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.Type)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %q already used by %q", apperrors.ErrDuplicate, req.Code, existing.Name)
	}

	account := domain.Account{
		AccountID: uuid.NewString(),
		TenantID:  tenantID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      accountType,
		IsSystem:  req.IsSystem,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code), slog.String("type", string(account.Type)))
	return &account, nil
}

// GetAccountByID retrieves an account, hiding accounts of other tenants
// behind not-found.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return account, nil
}

// ListAccounts returns the tenant's chart; archived accounts only when asked
// for.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, includeArchived bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByTenant(ctx, tenantID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// AccountsByID returns the tenant's full chart (archived included; archived
// accounts remain valid for historical reporting) keyed by id.
func (s *accountService) AccountsByID(ctx context.Context, tenantID string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByTenant(ctx, tenantID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		byID[account.AccountID] = account
	}
	return byID, nil
}

// ArchiveAccount soft-deletes an account. System accounts are protected;
// archived accounts keep their history and stay reportable.
func (s *accountService) ArchiveAccount(ctx context.Context, tenantID, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: system account %q cannot be archived", apperrors.ErrConflict, account.Code)
	}
	if account.IsArchived {
		return nil
	}

	if err := s.accountRepo.MarkAccountArchived(ctx, accountID, time.Now().UTC()); err != nil {
		logger.Error("Failed to archive account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to archive account: %w", err)
	}

	logger.Info("Account archived", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}
