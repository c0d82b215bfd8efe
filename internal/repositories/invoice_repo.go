package repositories

import (
	"context"
	"time"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, userID, id string) (*models.Invoice, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*models.Invoice, error)
	ListByDateFrom(ctx context.Context, userID string, from time.Time) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id, status string) error
	Delete(ctx context.Context, userID, id string) error

	// MarkOverdue moves pending invoices issued before the cutoff to overdue,
	// across all owners, and reports how many changed.
	MarkOverdue(ctx context.Context, before time.Time) (int, error)
	// ListOverdue returns overdue invoices across all owners for the reminder
	// sweep.
	ListOverdue(ctx context.Context) ([]*models.Invoice, error)
}

const invoiceCollection = "invoices"

type invoiceDocRepo struct {
	coll *docstore.Collection
}

// NewInvoiceDocRepo serves invoices from the embedded document store.
func NewInvoiceDocRepo(db *docstore.DB) InvoiceRepository {
	return &invoiceDocRepo{coll: db.Collection(invoiceCollection)}
}

func (r *invoiceDocRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	r.coll.InsertOne(invoiceToDoc(invoice))
	return nil
}

func (r *invoiceDocRepo) GetByID(ctx context.Context, userID, id string) (*models.Invoice, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"user_id": userID, "id": id})
	if !found {
		return nil, ErrNotFound
	}
	return docToInvoice(doc), nil
}

func (r *invoiceDocRepo) List(ctx context.Context, userID string, limit, offset int) ([]*models.Invoice, error) {
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).
		Sort("date", docstore.Descending).
		All()
	if offset > len(docs) {
		offset = len(docs)
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	invoices := make([]*models.Invoice, 0, len(docs))
	for _, d := range docs {
		invoices = append(invoices, docToInvoice(d))
	}
	return invoices, nil
}

func (r *invoiceDocRepo) ListByDateFrom(ctx context.Context, userID string, from time.Time) ([]*models.Invoice, error) {
	// The engine matches on equality only, so the date bound is applied here.
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).All()
	var invoices []*models.Invoice
	for _, d := range docs {
		inv := docToInvoice(d)
		if !inv.Date.Before(from) {
			invoices = append(invoices, inv)
		}
	}
	return invoices, nil
}

func (r *invoiceDocRepo) UpdateStatus(ctx context.Context, userID, id, status string) error {
	res := r.coll.UpdateOne(
		docstore.Filter{"user_id": userID, "id": id},
		docstore.Update{Set: docstore.Document{"status": status}},
		false,
	)
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceDocRepo) Delete(ctx context.Context, userID, id string) error {
	if r.coll.DeleteOne(docstore.Filter{"user_id": userID, "id": id}) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceDocRepo) MarkOverdue(ctx context.Context, before time.Time) (int, error) {
	docs := r.coll.Find(docstore.Filter{"status": models.InvoiceStatusPending}).All()
	marked := 0
	for _, d := range docs {
		inv := docToInvoice(d)
		if inv.Date.Before(before) {
			res := r.coll.UpdateOne(
				docstore.Filter{"id": inv.ID, "status": models.InvoiceStatusPending},
				docstore.Update{Set: docstore.Document{"status": models.InvoiceStatusOverdue}},
				false,
			)
			marked += res.Modified
		}
	}
	return marked, nil
}

func (r *invoiceDocRepo) ListOverdue(ctx context.Context) ([]*models.Invoice, error) {
	docs := r.coll.Find(docstore.Filter{"status": models.InvoiceStatusOverdue}).All()
	invoices := make([]*models.Invoice, 0, len(docs))
	for _, d := range docs {
		invoices = append(invoices, docToInvoice(d))
	}
	return invoices, nil
}

func invoiceToDoc(inv *models.Invoice) docstore.Document {
	return docstore.Document{
		"id":             inv.ID,
		"user_id":        inv.UserID,
		"customer_name":  inv.CustomerName,
		"customer_phone": inv.CustomerPhone,
		"items":          inv.Items,
		"amount":         inv.Amount,
		"gst_amount":     inv.GSTAmount,
		"total_with_gst": inv.TotalWithGST,
		"status":         inv.Status,
		"date":           inv.Date,
		"created_at":     inv.CreatedAt,
	}
}

func docToInvoice(d docstore.Document) *models.Invoice {
	inv := &models.Invoice{
		ID:            docString(d, "id"),
		UserID:        docString(d, "user_id"),
		CustomerName:  docString(d, "customer_name"),
		CustomerPhone: docString(d, "customer_phone"),
		Amount:        docFloat(d, "amount"),
		GSTAmount:     docFloat(d, "gst_amount"),
		TotalWithGST:  docFloat(d, "total_with_gst"),
		Status:        docString(d, "status"),
		Date:          docTime(d, "date"),
		CreatedAt:     docTime(d, "created_at"),
	}
	if items, ok := d["items"].([]models.LineItem); ok {
		inv.Items = items
	}
	return inv
}
