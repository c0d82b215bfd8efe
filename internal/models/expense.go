package models

import (
	"time"
)

type Expense struct {
	ID       string    `json:"id" db:"id"`
	UserID   string    `json:"user_id" db:"user_id"`
	Item     string    `json:"item" db:"item"`
	Amount   float64   `json:"amount" db:"amount"`
	Category string    `json:"category" db:"category"`
	Date     time.Time `json:"date" db:"date"`
}
