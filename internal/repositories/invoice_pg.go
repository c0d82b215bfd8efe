package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bharatbiz/internal/models"
)

type invoicePgRepo struct {
	db Database
}

// NewInvoicePgRepo serves invoices from Postgres. Line items live in a JSONB
// column; the contract is identical to the document-backed repository.
func NewInvoicePgRepo(db Database) InvoiceRepository {
	return &invoicePgRepo{db: db}
}

const invoiceColumns = `id, user_id, customer_name, customer_phone, items, amount, gst_amount, total_with_gst, status, date, created_at`

func (r *invoicePgRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, user_id, customer_name, customer_phone, items, amount, gst_amount, total_with_gst, status, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.Exec(ctx, query, invoice.ID, invoice.UserID, invoice.CustomerName, invoice.CustomerPhone, items, invoice.Amount, invoice.GSTAmount, invoice.TotalWithGST, invoice.Status, invoice.Date, invoice.CreatedAt)
	return err
}

func (r *invoicePgRepo) GetByID(ctx context.Context, userID, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND id = $2`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return invoice, err
}

func (r *invoicePgRepo) List(ctx context.Context, userID string, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func (r *invoicePgRepo) ListByDateFrom(ctx context.Context, userID string, from time.Time) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND date >= $2 ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query, userID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func (r *invoicePgRepo) UpdateStatus(ctx context.Context, userID, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET status = $1 WHERE user_id = $2 AND id = $3`, status, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoicePgRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoicePgRepo) MarkOverdue(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET status = $1 WHERE status = $2 AND date < $3`,
		models.InvoiceStatusOverdue, models.InvoiceStatusPending, before)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *invoicePgRepo) ListOverdue(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 ORDER BY date ASC`
	rows, err := r.db.Query(ctx, query, models.InvoiceStatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var items []byte
	err := row.Scan(&invoice.ID, &invoice.UserID, &invoice.CustomerName, &invoice.CustomerPhone, &items, &invoice.Amount, &invoice.GSTAmount, &invoice.TotalWithGST, &invoice.Status, &invoice.Date, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &invoice.Items); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

func collectInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
