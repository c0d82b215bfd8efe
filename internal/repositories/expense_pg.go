package repositories

import (
	"context"
	"time"

	"bharatbiz/internal/models"
)

type expensePgRepo struct {
	db Database
}

// NewExpensePgRepo serves expenses from Postgres.
func NewExpensePgRepo(db Database) ExpenseRepository {
	return &expensePgRepo{db: db}
}

func (r *expensePgRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, item, amount, category, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, expense.ID, expense.UserID, expense.Item, expense.Amount, expense.Category, expense.Date)
	return err
}

func (r *expensePgRepo) List(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, item, amount, category, date FROM expenses WHERE user_id = $1 ORDER BY date DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.UserID, &expense.Item, &expense.Amount, &expense.Category, &expense.Date); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *expensePgRepo) SumByDateFrom(ctx context.Context, userID string, from time.Time) (float64, error) {
	var sum float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1 AND date >= $2`
	if err := r.db.QueryRow(ctx, query, userID, from).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}
