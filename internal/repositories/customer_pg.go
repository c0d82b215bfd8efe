package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bharatbiz/internal/models"
)

type customerPgRepo struct {
	db Database
}

// NewCustomerPgRepo serves customers from Postgres.
func NewCustomerPgRepo(db Database) CustomerRepository {
	return &customerPgRepo{db: db}
}

const customerColumns = `id, user_id, name, phone, total_invoices, total_amount, pending_amount, last_interaction, created_at`

func (r *customerPgRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, name, phone, total_invoices, total_amount, pending_amount, last_interaction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, phone) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, customer.ID, customer.UserID, customer.Name, customer.Phone,
		customer.TotalInvoices, customer.TotalAmount, customer.PendingAmount, customer.LastInteraction, customer.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: phone %s already registered", ErrValidation, customer.Phone)
	}
	return nil
}

func (r *customerPgRepo) GetByName(ctx context.Context, userID, name string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND name = $2`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, userID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return customer, err
}

func (r *customerPgRepo) GetByPhone(ctx context.Context, userID, phone string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND phone = $2`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, userID, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return customer, err
}

func (r *customerPgRepo) List(ctx context.Context, userID string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *customerPgRepo) ListWithPending(ctx context.Context, userID string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND pending_amount > 0 ORDER BY pending_amount DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// ApplyInvoice runs the find-or-create and counter increments in one
// transaction; the SELECT ... FOR UPDATE serializes concurrent invoices for
// the same customer row.
func (r *customerPgRepo) ApplyInvoice(ctx context.Context, userID, name, phone string, total float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	lookup := `SELECT id FROM customers WHERE user_id = $1 AND name = $2 FOR UPDATE`
	key := name
	if phone != "" {
		lookup = `SELECT id FROM customers WHERE user_id = $1 AND phone = $2 FOR UPDATE`
		key = phone
	}

	var id string
	err = tx.QueryRow(ctx, lookup, userID, key).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		insert := `
			INSERT INTO customers (id, user_id, name, phone, total_invoices, total_amount, pending_amount, last_interaction, created_at)
			VALUES ($1, $2, $3, $4, 1, $5, $5, $6, $6)
		`
		if _, err := tx.Exec(ctx, insert, uuid.NewString(), userID, name, phone, total, time.Now()); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		update := `
			UPDATE customers
			SET total_invoices = total_invoices + 1,
			    total_amount = total_amount + $1,
			    pending_amount = pending_amount + $1,
			    last_interaction = $2
			WHERE id = $3
		`
		if _, err := tx.Exec(ctx, update, total, time.Now(), id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(&customer.ID, &customer.UserID, &customer.Name, &customer.Phone,
		&customer.TotalInvoices, &customer.TotalAmount, &customer.PendingAmount,
		&customer.LastInteraction, &customer.CreatedAt)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func collectCustomers(rows pgx.Rows) ([]*models.Customer, error) {
	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
