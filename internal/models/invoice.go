package models

import (
	"time"
)

// Invoice statuses.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusSent    = "sent"
)

// DefaultGSTRate is applied when an invoice carries no explicit GST amount.
const DefaultGSTRate = 0.18

// LineItem is a single invoice line. ProductID links the line to a product
// for stock tracking; it is optional.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Price       float64  `json:"price"`
	GSTRate     *float64 `json:"gst_rate,omitempty"`
	ProductID   string   `json:"product_id,omitempty"`
}

type Invoice struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	CustomerName  string     `json:"customer_name" db:"customer_name"`
	CustomerPhone string     `json:"customer_phone" db:"customer_phone"`
	Items         []LineItem `json:"items" db:"items"`
	Amount        float64    `json:"amount" db:"amount"`
	GSTAmount     float64    `json:"gst_amount" db:"gst_amount"`
	TotalWithGST  float64    `json:"total_with_gst" db:"total_with_gst"`
	Status        string     `json:"status" db:"status"`
	Date          time.Time  `json:"date" db:"date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ValidInvoiceStatus reports whether status is one of the allowed values.
func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusSent:
		return true
	}
	return false
}
