package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByName(ctx context.Context, userID, name string) (*models.Customer, error)
	GetByPhone(ctx context.Context, userID, phone string) (*models.Customer, error)
	List(ctx context.Context, userID string) ([]*models.Customer, error)
	ListWithPending(ctx context.Context, userID string) ([]*models.Customer, error)

	// ApplyInvoice finds or creates the customer and moves all three counters
	// (totalInvoices+1, totalAmount+total, pendingAmount+total) as one atomic
	// step. The customer key is (owner, phone) when a phone is supplied,
	// otherwise (owner, name).
	ApplyInvoice(ctx context.Context, userID, name, phone string, total float64) error
}

const customerCollection = "customers"

type customerDocRepo struct {
	coll *docstore.Collection
}

// NewCustomerDocRepo serves customers from the embedded document store.
func NewCustomerDocRepo(db *docstore.DB) CustomerRepository {
	return &customerDocRepo{coll: db.Collection(customerCollection)}
}

func (r *customerDocRepo) Create(ctx context.Context, customer *models.Customer) error {
	if customer.Phone == "" {
		r.coll.InsertOne(customerToDoc(customer))
		return nil
	}
	filter := docstore.Filter{"user_id": customer.UserID, "phone": customer.Phone}
	if _, inserted := r.coll.InsertOneIfAbsent(filter, customerToDoc(customer)); !inserted {
		return fmt.Errorf("%w: phone %s already registered", ErrValidation, customer.Phone)
	}
	return nil
}

func (r *customerDocRepo) GetByName(ctx context.Context, userID, name string) (*models.Customer, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"user_id": userID, "name": name})
	if !found {
		return nil, ErrNotFound
	}
	return docToCustomer(doc), nil
}

func (r *customerDocRepo) GetByPhone(ctx context.Context, userID, phone string) (*models.Customer, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"user_id": userID, "phone": phone})
	if !found {
		return nil, ErrNotFound
	}
	return docToCustomer(doc), nil
}

func (r *customerDocRepo) List(ctx context.Context, userID string) ([]*models.Customer, error) {
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).
		Sort("name", docstore.Ascending).
		All()
	customers := make([]*models.Customer, 0, len(docs))
	for _, d := range docs {
		customers = append(customers, docToCustomer(d))
	}
	return customers, nil
}

func (r *customerDocRepo) ListWithPending(ctx context.Context, userID string) ([]*models.Customer, error) {
	// Equality-only engine: the positive-balance cut happens here.
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).All()
	var customers []*models.Customer
	for _, d := range docs {
		c := docToCustomer(d)
		if c.PendingAmount > 0 {
			customers = append(customers, c)
		}
	}
	return customers, nil
}

func (r *customerDocRepo) ApplyInvoice(ctx context.Context, userID, name, phone string, total float64) error {
	filter := docstore.Filter{"user_id": userID, "name": name}
	onInsert := docstore.Document{
		"id":         uuid.NewString(),
		"phone":      phone,
		"created_at": time.Now(),
	}
	if phone != "" {
		filter = docstore.Filter{"user_id": userID, "phone": phone}
		onInsert = docstore.Document{
			"id":         uuid.NewString(),
			"name":       name,
			"created_at": time.Now(),
		}
	}
	// Single upsert call: the engine's collection lock makes the
	// read-modify-write of all three counters one critical section.
	r.coll.UpdateOne(filter, docstore.Update{
		Inc: docstore.Document{
			"total_invoices": 1,
			"total_amount":   total,
			"pending_amount": total,
		},
		Set:         docstore.Document{"last_interaction": time.Now()},
		SetOnInsert: onInsert,
	}, true)
	return nil
}

func customerToDoc(c *models.Customer) docstore.Document {
	return docstore.Document{
		"id":               c.ID,
		"user_id":          c.UserID,
		"name":             c.Name,
		"phone":            c.Phone,
		"total_invoices":   c.TotalInvoices,
		"total_amount":     c.TotalAmount,
		"pending_amount":   c.PendingAmount,
		"last_interaction": c.LastInteraction,
		"created_at":       c.CreatedAt,
	}
}

func docToCustomer(d docstore.Document) *models.Customer {
	return &models.Customer{
		ID:              docString(d, "id"),
		UserID:          docString(d, "user_id"),
		Name:            docString(d, "name"),
		Phone:           docString(d, "phone"),
		TotalInvoices:   docInt(d, "total_invoices"),
		TotalAmount:     docFloat(d, "total_amount"),
		PendingAmount:   docFloat(d, "pending_amount"),
		LastInteraction: docTime(d, "last_interaction"),
		CreatedAt:       docTime(d, "created_at"),
	}
}
