package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

type tenantService struct {
	tenantRepo  portsrepo.TenantRepository
	accountRepo portsrepo.AccountRepository
}

// NewTenantService creates the tenant registry service.
func NewTenantService(tenantRepo portsrepo.TenantRepository, accountRepo portsrepo.AccountRepository) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:  tenantRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant registers a tenant and seeds its system chart of accounts.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:  uuid.NewString(),
		Name:      req.Name,
		CreatedAt: now,
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to save tenant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	if err := s.accountRepo.SaveAccounts(ctx, SeedSystemAccounts(tenant.TenantID, now)); err != nil {
		logger.Error("Failed to seed chart of accounts", slog.String("tenant_id", tenant.TenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to seed chart of accounts: %w", err)
	}

	logger.Info("Tenant created with seeded chart of accounts", slog.String("tenant_id", tenant.TenantID), slog.String("name", tenant.Name))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}

// ListTenants lists all registered tenants.
func (s *tenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// SeedSystemAccounts builds the protected starter chart of accounts for a new
// tenant. Invoice and bill approval resolve their control accounts (bank, AR,
// AP) by these codes.
func SeedSystemAccounts(tenantID string, now time.Time) []domain.Account {
	seed := []struct {
		code string
		name string
		typ  domain.AccountType
	}{
		{domain.CodeBank, "Bank", domain.Asset},
		{domain.CodeAccountsReceivable, "Accounts Receivable", domain.Asset},
		{domain.CodeAccountsPayable, "Accounts Payable", domain.Liability},
		{domain.CodeEquity, "Equity", domain.Equity},
		{domain.CodeRevenue, "Revenue", domain.Revenue},
		{domain.CodeExpense, "Expense", domain.Expense},
	}

	accounts := make([]domain.Account, len(seed))
	for i, sa := range seed {
		accounts[i] = domain.Account{
			AccountID: uuid.NewString(),
			TenantID:  tenantID,
			Code:      sa.code,
			Name:      sa.name,
			Type:      sa.typ,
			IsSystem:  true,
			CreatedAt: now,
		}
	}
	return accounts
}
