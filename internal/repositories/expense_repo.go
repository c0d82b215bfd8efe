package repositories

import (
	"context"
	"time"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context, userID string, limit int) ([]*models.Expense, error)
	SumByDateFrom(ctx context.Context, userID string, from time.Time) (float64, error)
}

const expenseCollection = "expenses"

type expenseDocRepo struct {
	coll *docstore.Collection
}

// NewExpenseDocRepo serves expenses from the embedded document store.
func NewExpenseDocRepo(db *docstore.DB) ExpenseRepository {
	return &expenseDocRepo{coll: db.Collection(expenseCollection)}
}

func (r *expenseDocRepo) Create(ctx context.Context, expense *models.Expense) error {
	r.coll.InsertOne(docstore.Document{
		"id":       expense.ID,
		"user_id":  expense.UserID,
		"item":     expense.Item,
		"amount":   expense.Amount,
		"category": expense.Category,
		"date":     expense.Date,
	})
	return nil
}

func (r *expenseDocRepo) List(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	cur := r.coll.Find(docstore.Filter{"user_id": userID}).Sort("date", docstore.Descending)
	if limit > 0 {
		cur = cur.Limit(limit)
	}
	docs := cur.All()
	expenses := make([]*models.Expense, 0, len(docs))
	for _, d := range docs {
		expenses = append(expenses, &models.Expense{
			ID:       docString(d, "id"),
			UserID:   docString(d, "user_id"),
			Item:     docString(d, "item"),
			Amount:   docFloat(d, "amount"),
			Category: docString(d, "category"),
			Date:     docTime(d, "date"),
		})
	}
	return expenses, nil
}

func (r *expenseDocRepo) SumByDateFrom(ctx context.Context, userID string, from time.Time) (float64, error) {
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).All()
	var sum float64
	for _, d := range docs {
		if !docTime(d, "date").Before(from) {
			sum += docFloat(d, "amount")
		}
	}
	return sum, nil
}
