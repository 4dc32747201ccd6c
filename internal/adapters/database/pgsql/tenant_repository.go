package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ports/repositories"
)

type PgxTenantRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTenantRepository creates a new repository for the tenant registry.
func NewPgxTenantRepository(pool *pgxpool.Pool) repositories.TenantRepository {
	return &PgxTenantRepository{pool: pool}
}

func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (tenant_id, name, created_at)
		VALUES ($1, $2, $3);
	`
	_, err := r.pool.Exec(ctx, query, tenant.TenantID, tenant.Name, tenant.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tenant %s: %w", tenant.TenantID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert tenant %s: %w", tenant.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, created_at
		FROM tenants
		WHERE tenant_id = $1;
	`
	var tenant domain.Tenant
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&tenant.TenantID,
		&tenant.Name,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by ID %s: %w", tenantID, err)
	}
	return &tenant, nil
}

func (r *PgxTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, created_at
		FROM tenants
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		var tenant domain.Tenant
		if err := rows.Scan(&tenant.TenantID, &tenant.Name, &tenant.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}
