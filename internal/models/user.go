package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const RoleMerchant = "merchant"

// User is the owning account for a ledger. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID           string    `json:"id" db:"id"`
	Phone        string    `json:"phone" db:"phone"`
	Password     string    `json:"-" db:"password"`
	Name         string    `json:"name" db:"name"`
	BusinessName string    `json:"business_name" db:"business_name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewUser validates and builds a user record from registration input.
func NewUser(phone, passwordHash, name, businessName string) (*User, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password is required")
	}
	return &User{
		ID:           uuid.NewString(),
		Phone:        phone,
		Password:     passwordHash,
		Name:         name,
		BusinessName: businessName,
		Role:         RoleMerchant,
		CreatedAt:    time.Now(),
	}, nil
}
