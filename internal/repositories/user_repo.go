package repositories

import (
	"context"
	"fmt"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

const userCollection = "users"

type userDocRepo struct {
	coll *docstore.Collection
}

// NewUserDocRepo serves users from the embedded document store.
func NewUserDocRepo(db *docstore.DB) UserRepository {
	return &userDocRepo{coll: db.Collection(userCollection)}
}

func (r *userDocRepo) Create(ctx context.Context, user *models.User) error {
	doc := docstore.Document{
		"id":            user.ID,
		"phone":         user.Phone,
		"password":      user.Password,
		"name":          user.Name,
		"business_name": user.BusinessName,
		"role":          user.Role,
		"created_at":    user.CreatedAt,
	}
	if _, inserted := r.coll.InsertOneIfAbsent(docstore.Filter{"phone": user.Phone}, doc); !inserted {
		return fmt.Errorf("%w: phone %s already registered", ErrValidation, user.Phone)
	}
	return nil
}

func (r *userDocRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"phone": phone})
	if !found {
		return nil, ErrNotFound
	}
	return docToUser(doc), nil
}

func (r *userDocRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, found := r.coll.FindOne(docstore.Filter{"id": id})
	if !found {
		return nil, ErrNotFound
	}
	return docToUser(doc), nil
}

func docToUser(d docstore.Document) *models.User {
	return &models.User{
		ID:           docString(d, "id"),
		Phone:        docString(d, "phone"),
		Password:     docString(d, "password"),
		Name:         docString(d, "name"),
		BusinessName: docString(d, "business_name"),
		Role:         docString(d, "role"),
		CreatedAt:    docTime(d, "created_at"),
	}
}
