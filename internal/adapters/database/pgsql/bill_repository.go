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

type PgxBillRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBillRepository creates a new repository for suppliers and bills.
func NewPgxBillRepository(pool *pgxpool.Pool) repositories.BillRepository {
	return &PgxBillRepository{pool: pool}
}

func (r *PgxBillRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, tenant_id, name, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		supplier.SupplierID,
		supplier.TenantID,
		supplier.Name,
		supplier.Email,
		supplier.Address,
		supplier.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("supplier %s: %w", supplier.SupplierID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert supplier %s: %w", supplier.SupplierID, err)
	}
	return nil
}

func (r *PgxBillRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `
		SELECT supplier_id, tenant_id, name, email, address, created_at
		FROM suppliers
		WHERE supplier_id = $1;
	`
	var supplier domain.Supplier
	err := r.pool.QueryRow(ctx, query, supplierID).Scan(
		&supplier.SupplierID,
		&supplier.TenantID,
		&supplier.Name,
		&supplier.Email,
		&supplier.Address,
		&supplier.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID %s: %w", supplierID, err)
	}
	return &supplier, nil
}

func (r *PgxBillRepository) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	query := `
		SELECT supplier_id, tenant_id, name, email, address, created_at
		FROM suppliers
		WHERE tenant_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(
			&supplier.SupplierID,
			&supplier.TenantID,
			&supplier.Name,
			&supplier.Email,
			&supplier.Address,
			&supplier.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

// SaveBill inserts the bill header and its lines in one DB transaction.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	headerQuery := `
		INSERT INTO bills (bill_id, tenant_id, bill_number, supplier_id, issue_date, due_date, status, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, headerQuery,
		bill.BillID,
		bill.TenantID,
		bill.BillNumber,
		bill.SupplierID,
		string(bill.IssueDate),
		string(bill.DueDate),
		bill.Status,
		bill.AmountCents,
		bill.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bill %s: %w", bill.BillID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert bill %s: %w", bill.BillID, err)
	}

	lineQuery := `
		INSERT INTO bill_lines (line_id, bill_id, description, quantity, unit_price_cents, amount_cents, expense_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range bill.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.BillID,
			line.Description,
			line.Quantity,
			line.UnitPriceCents,
			line.AmountCents,
			line.ExpenseAccountID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute line batch for bill %s: %w", bill.BillID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bill %s: %w", bill.BillID, err)
	}
	return nil
}

const selectBillColumns = `
	SELECT b.bill_id, b.tenant_id, b.bill_number, b.supplier_id, s.name, b.issue_date, b.due_date, b.status, b.amount_cents, b.created_at
	FROM bills b
	JOIN suppliers s ON s.supplier_id = b.supplier_id
`

func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := selectBillColumns + `WHERE b.bill_id = $1;`
	bill, err := scanBillRow(r.pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}

	lines, err := r.findLinesByBillID(ctx, billID)
	if err != nil {
		return nil, err
	}
	bill.Lines = lines
	return bill, nil
}

func (r *PgxBillRepository) findLinesByBillID(ctx context.Context, billID string) ([]domain.BillLine, error) {
	query := `
		SELECT line_id, bill_id, description, quantity, unit_price_cents, amount_cents, expense_account_id
		FROM bill_lines
		WHERE bill_id = $1
		ORDER BY line_id;
	`
	rows, err := r.pool.Query(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for bill %s: %w", billID, err)
	}
	defer rows.Close()

	lines := []domain.BillLine{}
	for rows.Next() {
		var line domain.BillLine
		if err := rows.Scan(
			&line.LineID,
			&line.BillID,
			&line.Description,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.AmountCents,
			&line.ExpenseAccountID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for bill %s: %w", billID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for bill %s: %w", billID, err)
	}
	return lines, nil
}

func (r *PgxBillRepository) ListBills(ctx context.Context, tenantID string) ([]domain.Bill, error) {
	query := selectBillColumns + `WHERE b.tenant_id = $1 ORDER BY b.created_at;`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		bill, err := scanBillRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", err)
	}
	return bills, nil
}

func (r *PgxBillRepository) UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus) error {
	query := `UPDATE bills SET status = $2 WHERE bill_id = $1;`
	tag, err := r.pool.Exec(ctx, query, billID, status)
	if err != nil {
		return fmt.Errorf("failed to update status for bill %s: %w", billID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanBillRow(row pgx.Row) (*domain.Bill, error) {
	var bill domain.Bill
	var issueDate, dueDate string
	err := row.Scan(
		&bill.BillID,
		&bill.TenantID,
		&bill.BillNumber,
		&bill.SupplierID,
		&bill.SupplierName,
		&issueDate,
		&dueDate,
		&bill.Status,
		&bill.AmountCents,
		&bill.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	bill.IssueDate = domain.Date(issueDate)
	bill.DueDate = domain.Date(dueDate)
	return &bill, nil
}
