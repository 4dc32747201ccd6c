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

type PgxBankingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBankingRepository creates a new repository for imported bank
// transactions and reconciliation rules.
func NewPgxBankingRepository(pool *pgxpool.Pool) repositories.BankingRepository {
	return &PgxBankingRepository{pool: pool}
}

func (r *PgxBankingRepository) SaveBankTransactions(ctx context.Context, txns []domain.BankTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO bank_transactions (transaction_id, tenant_id, bank_account_id, txn_date, description, amount_cents, status, matched_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(query,
			txn.TransactionID,
			txn.TenantID,
			txn.BankAccountID,
			string(txn.Date),
			txn.Description,
			txn.AmountCents,
			txn.Status,
			txn.MatchedEntryID,
			txn.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute bank transaction batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bank transaction batch: %w", err)
	}
	return nil
}

const selectBankTxnColumns = `
	SELECT transaction_id, tenant_id, bank_account_id, txn_date, description, amount_cents, status, matched_entry_id, created_at
	FROM bank_transactions
`

func (r *PgxBankingRepository) FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := selectBankTxnColumns + `WHERE transaction_id = $1;`
	txn, err := scanBankTxnRow(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxBankingRepository) ListBankTransactionsByStatus(ctx context.Context, tenantID string, status domain.BankTxnStatus) ([]domain.BankTransaction, error) {
	query := selectBankTxnColumns + `WHERE tenant_id = $1 AND status = $2 ORDER BY txn_date, transaction_id;`
	rows, err := r.pool.Query(ctx, query, tenantID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		txn, err := scanBankTxnRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxBankingRepository) MarkBankTransactionMatched(ctx context.Context, transactionID, matchedEntryID string) error {
	query := `
		UPDATE bank_transactions
		SET status = $2, matched_entry_id = $3
		WHERE transaction_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, transactionID, domain.BankTxnMatched, matchedEntryID)
	if err != nil {
		return fmt.Errorf("failed to mark bank transaction %s matched: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBankingRepository) SaveBankRule(ctx context.Context, rule domain.BankRule) error {
	query := `
		INSERT INTO bank_rules (rule_id, tenant_id, name, pattern, target_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		rule.RuleID,
		rule.TenantID,
		rule.Name,
		rule.Pattern,
		rule.TargetAccountID,
		rule.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bank rule %s: %w", rule.RuleID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert bank rule %s: %w", rule.RuleID, err)
	}
	return nil
}

func (r *PgxBankingRepository) ListBankRules(ctx context.Context, tenantID string) ([]domain.BankRule, error) {
	query := `
		SELECT rule_id, tenant_id, name, pattern, target_account_id, created_at
		FROM bank_rules
		WHERE tenant_id = $1
		ORDER BY created_at, rule_id;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank rules for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	rules := []domain.BankRule{}
	for rows.Next() {
		var rule domain.BankRule
		if err := rows.Scan(
			&rule.RuleID,
			&rule.TenantID,
			&rule.Name,
			&rule.Pattern,
			&rule.TargetAccountID,
			&rule.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bank rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank rule rows: %w", err)
	}
	return rules, nil
}

func (r *PgxBankingRepository) DeleteBankRule(ctx context.Context, ruleID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bank_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete bank rule %s: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanBankTxnRow(row pgx.Row) (*domain.BankTransaction, error) {
	var txn domain.BankTransaction
	var date string
	err := row.Scan(
		&txn.TransactionID,
		&txn.TenantID,
		&txn.BankAccountID,
		&date,
		&txn.Description,
		&txn.AmountCents,
		&txn.Status,
		&txn.MatchedEntryID,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.Date = domain.Date(date)
	return &txn, nil
}
