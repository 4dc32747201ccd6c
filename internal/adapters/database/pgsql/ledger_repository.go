package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	"github.com/finbooks/finbooks/internal/core/ports/repositories"
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLedgerRepository creates a new repository for journal entries and the
// materialized ledger line sequences.
func NewPgxLedgerRepository(pool *pgxpool.Pool) repositories.LedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

// SaveEntry runs the whole read-modify-write of a post in one DB
// transaction. Transaction-scoped advisory locks are taken per touched
// account in sorted order (sorting prevents lock-order deadlocks), the
// committed sequences are loaded and handed to post, and only then are the
// entry, its lines, and the recomputed sequences written. Two posts touching
// the same account therefore queue up on the locks while posts on disjoint
// accounts run concurrently. The stored sequence is replaced wholesale
// because a backdated entry shifts the balances of every later line.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, post repositories.PostFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	seen := make(map[string]struct{}, len(entry.Lines))
	accountIDs := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}
	sort.Strings(accountIDs)
	for _, accountID := range accountIDs {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, accountID); err != nil {
			return fmt.Errorf("failed to lock account %s: %w", accountID, err)
		}
	}

	state, err := r.stateForAccountsTx(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	next, err := post(state)
	if err != nil {
		return err
	}

	entryQuery := `
		INSERT INTO journal_entries (entry_id, tenant_id, entry_date, description, source_type, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.TenantID,
		string(entry.Date),
		entry.Description,
		entry.SourceType,
		entry.SourceID,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (entry_id, tenant_id, line_no, account_id, debit_cents, credit_cents, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for i, line := range entry.Lines {
		batch.Queue(lineQuery,
			entry.EntryID,
			entry.TenantID,
			i,
			line.AccountID,
			line.DebitCents,
			line.CreditCents,
			line.Memo,
		)
	}

	// Replace each touched account's materialized sequence. The seq column
	// preserves the engine's canonical order across reads.
	sequenceQuery := `
		INSERT INTO ledger_lines (account_id, seq, entry_id, entry_date, description, debit_cents, credit_cents, balance_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, accountID := range accountIDs {
		batch.Queue(`DELETE FROM ledger_lines WHERE account_id = $1;`, accountID)
		for seq, line := range next[accountID] {
			batch.Queue(sequenceQuery,
				accountID,
				seq,
				line.EntryID,
				string(line.Date),
				line.Description,
				line.DebitCents,
				line.CreditCents,
				line.BalanceCents,
			)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute posting batch for entry %s: %w", entry.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// stateForAccountsTx loads the committed sequences of the given accounts
// inside the posting transaction, after the advisory locks are held.
func (r *PgxLedgerRepository) stateForAccountsTx(ctx context.Context, tx pgx.Tx, accountIDs []string) (ledger.State, error) {
	query := selectLedgerLineColumns + `WHERE account_id = ANY($1) ORDER BY account_id, seq;`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger state: %w", err)
	}
	defer rows.Close()
	return collectState(rows)
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, entry_date, description, source_type, source_id, created_at
		FROM journal_entries
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	var entry domain.JournalEntry
	var date string
	err := r.pool.QueryRow(ctx, query, tenantID, entryID).Scan(
		&entry.EntryID,
		&entry.TenantID,
		&date,
		&entry.Description,
		&entry.SourceType,
		&entry.SourceID,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	entry.Date = domain.Date(date)

	lines, err := r.findLinesByEntryID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (r *PgxLedgerRepository) findLinesByEntryID(ctx context.Context, tenantID, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT account_id, debit_cents, credit_cents, memo
		FROM journal_lines
		WHERE tenant_id = $1 AND entry_id = $2
		ORDER BY line_no;
	`
	rows, err := r.pool.Query(ctx, query, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var line domain.JournalLine
		if err := rows.Scan(&line.AccountID, &line.DebitCents, &line.CreditCents, &line.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

func (r *PgxLedgerRepository) ListEntries(ctx context.Context, tenantID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, entry_date, description, source_type, source_id, created_at
		FROM journal_entries
		WHERE tenant_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var entry domain.JournalEntry
		var date string
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TenantID,
			&date,
			&entry.Description,
			&entry.SourceType,
			&entry.SourceID,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entry.Date = domain.Date(date)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	for i := range entries {
		lines, err := r.findLinesByEntryID(ctx, tenantID, entries[i].EntryID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

const selectLedgerLineColumns = `
	SELECT account_id, entry_id, entry_date, description, debit_cents, credit_cents, balance_cents
	FROM ledger_lines
`

func (r *PgxLedgerRepository) AccountLines(ctx context.Context, accountID string) ([]domain.LedgerLine, error) {
	query := selectLedgerLineColumns + `WHERE account_id = $1 ORDER BY seq;`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var accID string
		line, err := scanLedgerLine(rows, &accID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line for account %s: %w", accountID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines for account %s: %w", accountID, err)
	}
	return lines, nil
}

func (r *PgxLedgerRepository) StateForTenant(ctx context.Context, tenantID string) (ledger.State, error) {
	query := `
		SELECT l.account_id, l.entry_id, l.entry_date, l.description, l.debit_cents, l.credit_cents, l.balance_cents
		FROM ledger_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.tenant_id = $1
		ORDER BY l.account_id, l.seq;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger state for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()
	return collectState(rows)
}

func collectState(rows pgx.Rows) (ledger.State, error) {
	state := ledger.NewState()
	for rows.Next() {
		var accountID string
		line, err := scanLedgerLine(rows, &accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		state[accountID] = append(state[accountID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines: %w", err)
	}
	return state, nil
}

func scanLedgerLine(row pgx.Row, accountID *string) (domain.LedgerLine, error) {
	var line domain.LedgerLine
	var date string
	err := row.Scan(
		accountID,
		&line.EntryID,
		&date,
		&line.Description,
		&line.DebitCents,
		&line.CreditCents,
		&line.BalanceCents,
	)
	if err != nil {
		return domain.LedgerLine{}, err
	}
	line.Date = domain.Date(date)
	return line, nil
}
