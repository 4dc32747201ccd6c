// Package repositories defines the persistence ports of the bookkeeping
// core. The engine itself is pure; these interfaces are the only seam through
// which state is loaded and atomically stored, so adapters can be swapped
// between the in-memory store and the pgsql store without touching the
// services.
package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// TenantRepository stores the tenant registry.
type TenantRepository interface {
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// AccountRepository stores the per-tenant chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	// SaveAccounts persists several accounts atomically; used for seeding the
	// system chart on tenant creation.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountByCode resolves an account by its per-tenant code; used to
	// locate the seeded control accounts (AR, AP, bank).
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)
	FindAccountsByTenant(ctx context.Context, tenantID string, includeArchived bool) ([]domain.Account, error)
	MarkAccountArchived(ctx context.Context, accountID string, archivedAt time.Time) error
}
