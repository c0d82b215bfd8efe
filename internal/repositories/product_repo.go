package repositories

import (
	"context"
	"time"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, userID, id string) (*models.Product, error)
	List(ctx context.Context, userID string) ([]*models.Product, error)

	// DecrementStock reduces stock by qty. A missing product is reported as
	// ErrNotFound; invoice creation treats that as best-effort and moves on.
	DecrementStock(ctx context.Context, userID, id string, qty float64) error
	SetStock(ctx context.Context, userID, id string, stock float64) error
}

const productCollection = "products"

type productDocRepo struct {
	coll *docstore.Collection
}

// NewProductDocRepo serves products from the embedded document store.
func NewProductDocRepo(db *docstore.DB) ProductRepository {
	return &productDocRepo{coll: db.Collection(productCollection)}
}

func (r *productDocRepo) Create(ctx context.Context, product *models.Product) error {
	r.coll.InsertOne(productToDoc(product))
	return nil
}

func (r *productDocRepo) GetByID(ctx context.Context, userID, id string) (*models.Product, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"user_id": userID, "id": id})
	if !found {
		return nil, ErrNotFound
	}
	return docToProduct(doc), nil
}

func (r *productDocRepo) List(ctx context.Context, userID string) ([]*models.Product, error) {
	docs := r.coll.Find(docstore.Filter{"user_id": userID}).
		Sort("name", docstore.Ascending).
		All()
	products := make([]*models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, docToProduct(d))
	}
	return products, nil
}

func (r *productDocRepo) DecrementStock(ctx context.Context, userID, id string, qty float64) error {
	res := r.coll.UpdateOne(
		docstore.Filter{"user_id": userID, "id": id},
		docstore.Update{
			Inc: docstore.Document{"stock": -qty},
			Set: docstore.Document{"updated_at": time.Now()},
		},
		false,
	)
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productDocRepo) SetStock(ctx context.Context, userID, id string, stock float64) error {
	res := r.coll.UpdateOne(
		docstore.Filter{"user_id": userID, "id": id},
		docstore.Update{
			Set: docstore.Document{"stock": stock, "updated_at": time.Now()},
		},
		false,
	)
	if res.Matched == 0 {
		return ErrNotFound
	}
	return nil
}

func productToDoc(p *models.Product) docstore.Document {
	doc := docstore.Document{
		"id":         p.ID,
		"user_id":    p.UserID,
		"name":       p.Name,
		"sku":        p.SKU,
		"category":   p.Category,
		"unit_price": p.UnitPrice,
		"stock":      p.Stock,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	if p.MinStock != nil {
		doc["min_stock"] = *p.MinStock
	}
	return doc
}

func docToProduct(d docstore.Document) *models.Product {
	p := &models.Product{
		ID:        docString(d, "id"),
		UserID:    docString(d, "user_id"),
		Name:      docString(d, "name"),
		SKU:       docString(d, "sku"),
		Category:  docString(d, "category"),
		UnitPrice: docFloat(d, "unit_price"),
		Stock:     docFloat(d, "stock"),
		CreatedAt: docTime(d, "created_at"),
		UpdatedAt: docTime(d, "updated_at"),
	}
	if _, ok := d["min_stock"]; ok {
		min := docFloat(d, "min_stock")
		p.MinStock = &min
	}
	return p
}
