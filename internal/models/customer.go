package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer carries the running udhaar ledger for one buyer. The counters are
// only ever moved by the invoice paths; PendingAmount is an independently
// incremented balance, not derived from invoices on read.
type Customer struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	Phone           string    `json:"phone" db:"phone"`
	TotalInvoices   int       `json:"total_invoices" db:"total_invoices"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	PendingAmount   float64   `json:"pending_amount" db:"pending_amount"`
	LastInteraction time.Time `json:"last_interaction" db:"last_interaction"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// NewCustomer validates and builds a customer for direct creation. Phone is
// required on this path; the invoice upsert path tolerates a missing phone.
func NewCustomer(userID, name, phone string) (*Customer, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("customer phone is required")
	}
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	now := time.Now()
	return &Customer{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            name,
		Phone:           phone,
		LastInteraction: now,
		CreatedAt:       now,
	}, nil
}
