package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bharatbiz/internal/models"
)

type userPgRepo struct {
	db Database
}

// NewUserPgRepo serves users from Postgres.
func NewUserPgRepo(db Database) UserRepository {
	return &userPgRepo{db: db}
}

const userColumns = `id, phone, password, name, business_name, role, created_at`

func (r *userPgRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, phone, password, name, business_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Phone, user.Password, user.Name, user.BusinessName, user.Role, user.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: phone %s already registered", ErrValidation, user.Phone)
	}
	return nil
}

func (r *userPgRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func (r *userPgRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Phone, &user.Password, &user.Name, &user.BusinessName, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
