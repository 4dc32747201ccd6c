package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for the chart of accounts.
func NewPgxAccountRepository(pool *pgxpool.Pool) repositories.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

const insertAccountQuery = `
	INSERT INTO accounts (account_id, tenant_id, code, name, account_type, is_system, is_archived, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	_, err := r.pool.Exec(ctx, insertAccountQuery,
		account.AccountID,
		account.TenantID,
		account.Code,
		account.Name,
		account.Type,
		account.IsSystem,
		account.IsArchived,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account code %q: %w", account.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}
	return nil
}

// SaveAccounts inserts several accounts in one DB transaction; used for
// seeding the system chart on tenant creation.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, account := range accounts {
		batch.Queue(insertAccountQuery,
			account.AccountID,
			account.TenantID,
			account.Code,
			account.Name,
			account.Type,
			account.IsSystem,
			account.IsArchived,
			account.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account batch: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute account batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account batch: %w", err)
	}
	return nil
}

const selectAccountColumns = `
	SELECT account_id, tenant_id, code, name, account_type, is_system, is_archived, created_at
	FROM accounts
`

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := selectAccountColumns + `WHERE account_id = $1;`
	account, err := scanAccountRow(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := selectAccountColumns + `WHERE tenant_id = $1 AND code = $2;`
	account, err := scanAccountRow(r.pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %q: %w", code, err)
	}
	return account, nil
}

func (r *PgxAccountRepository) FindAccountsByTenant(ctx context.Context, tenantID string, includeArchived bool) ([]domain.Account, error) {
	query := selectAccountColumns + `WHERE tenant_id = $1`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	query += ` ORDER BY code;`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) MarkAccountArchived(ctx context.Context, accountID string, archivedAt time.Time) error {
	query := `
		UPDATE accounts
		SET is_archived = TRUE, archived_at = $2
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, archivedAt)
	if err != nil {
		return fmt.Errorf("failed to archive account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanAccountRow(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.TenantID,
		&account.Code,
		&account.Name,
		&account.Type,
		&account.IsSystem,
		&account.IsArchived,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
