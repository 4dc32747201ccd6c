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

type PgxInvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewPgxInvoiceRepository creates a new repository for customers and
// invoices.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) repositories.InvoiceRepository {
	return &PgxInvoiceRepository{pool: pool}
}

func (r *PgxInvoiceRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, tenant_id, name, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		customer.CustomerID,
		customer.TenantID,
		customer.Name,
		customer.Email,
		customer.Address,
		customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer %s: %w", customer.CustomerID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert customer %s: %w", customer.CustomerID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, email, address, created_at
		FROM customers
		WHERE customer_id = $1;
	`
	var customer domain.Customer
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&customer.CustomerID,
		&customer.TenantID,
		&customer.Name,
		&customer.Email,
		&customer.Address,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	return &customer, nil
}

func (r *PgxInvoiceRepository) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, email, address, created_at
		FROM customers
		WHERE tenant_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.CustomerID,
			&customer.TenantID,
			&customer.Name,
			&customer.Email,
			&customer.Address,
			&customer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

// SaveInvoice inserts the invoice header and its lines in one DB transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	headerQuery := `
		INSERT INTO invoices (invoice_id, tenant_id, invoice_number, customer_id, issue_date, due_date, status, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, headerQuery,
		invoice.InvoiceID,
		invoice.TenantID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		string(invoice.IssueDate),
		string(invoice.DueDate),
		invoice.Status,
		invoice.AmountCents,
		invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice %s: %w", invoice.InvoiceID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, description, quantity, unit_price_cents, amount_cents, revenue_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range invoice.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.InvoiceID,
			line.Description,
			line.Quantity,
			line.UnitPriceCents,
			line.AmountCents,
			line.RevenueAccountID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute line batch for invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

const selectInvoiceColumns = `
	SELECT i.invoice_id, i.tenant_id, i.invoice_number, i.customer_id, c.name, i.issue_date, i.due_date, i.status, i.amount_cents, i.created_at
	FROM invoices i
	JOIN customers c ON c.customer_id = i.customer_id
`

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := selectInvoiceColumns + `WHERE i.invoice_id = $1;`
	invoice, err := scanInvoiceRow(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	lines, err := r.findLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines
	return invoice, nil
}

func (r *PgxInvoiceRepository) findLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, description, quantity, unit_price_cents, amount_cents, revenue_account_id
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	lines := []domain.InvoiceLine{}
	for rows.Next() {
		var line domain.InvoiceLine
		if err := rows.Scan(
			&line.LineID,
			&line.InvoiceID,
			&line.Description,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.AmountCents,
			&line.RevenueAccountID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for invoice %s: %w", invoiceID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for invoice %s: %w", invoiceID, err)
	}
	return lines, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string) ([]domain.Invoice, error) {
	query := selectInvoiceColumns + `WHERE i.tenant_id = $1 ORDER BY i.created_at;`
	return r.queryInvoices(ctx, query, tenantID)
}

func (r *PgxInvoiceRepository) ListInvoicesByStatus(ctx context.Context, tenantID string, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	query := selectInvoiceColumns + `WHERE i.tenant_id = $1 AND i.status = $2 ORDER BY i.due_date;`
	return r.queryInvoices(ctx, query, tenantID, status)
}

func (r *PgxInvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error {
	query := `UPDATE invoices SET status = $2 WHERE invoice_id = $1;`
	tag, err := r.pool.Exec(ctx, query, invoiceID, status)
	if err != nil {
		return fmt.Errorf("failed to update status for invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanInvoiceRow(row pgx.Row) (*domain.Invoice, error) {
	var invoice domain.Invoice
	var issueDate, dueDate string
	err := row.Scan(
		&invoice.InvoiceID,
		&invoice.TenantID,
		&invoice.InvoiceNumber,
		&invoice.CustomerID,
		&invoice.CustomerName,
		&issueDate,
		&dueDate,
		&invoice.Status,
		&invoice.AmountCents,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	invoice.IssueDate = domain.Date(issueDate)
	invoice.DueDate = domain.Date(dueDate)
	return &invoice, nil
}
