package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bharatbiz/internal/models"
)

type productPgRepo struct {
	db Database
}

// NewProductPgRepo serves products from Postgres.
func NewProductPgRepo(db Database) ProductRepository {
	return &productPgRepo{db: db}
}

const productColumns = `id, user_id, name, sku, category, unit_price, stock, min_stock, created_at, updated_at`

func (r *productPgRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, user_id, name, sku, category, unit_price, stock, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.UserID, product.Name, product.SKU,
		product.Category, product.UnitPrice, product.Stock, product.MinStock, product.CreatedAt, product.UpdatedAt)
	return err
}

func (r *productPgRepo) GetByID(ctx context.Context, userID, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND id = $2`
	product, err := scanProduct(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return product, err
}

func (r *productPgRepo) List(ctx context.Context, userID string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productPgRepo) DecrementStock(ctx context.Context, userID, id string, qty float64) error {
	// Atomic in-database decrement, no read-modify-write.
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE user_id = $3 AND id = $4`,
		qty, time.Now(), userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productPgRepo) SetStock(ctx context.Context, userID, id string, stock float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = $1, updated_at = $2 WHERE user_id = $3 AND id = $4`,
		stock, time.Now(), userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.UserID, &product.Name, &product.SKU, &product.Category,
		&product.UnitPrice, &product.Stock, &product.MinStock, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}
