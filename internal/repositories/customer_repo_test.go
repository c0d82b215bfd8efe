package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bharatbiz/internal/docstore"
	"bharatbiz/internal/models"
)

func TestCustomerCreateRejectsDuplicatePhone(t *testing.T) {
	repo := NewCustomerDocRepo(docstore.New())
	ctx := context.Background()

	err := repo.Create(ctx, &models.Customer{ID: "c1", UserID: "u1", Name: "Raju", Phone: "9876543210"})
	require.NoError(t, err)

	err = repo.Create(ctx, &models.Customer{ID: "c2", UserID: "u1", Name: "Shyam", Phone: "9876543210"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomerCreateAllowsDuplicateNamesWithoutPhone(t *testing.T) {
	repo := NewCustomerDocRepo(docstore.New())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Customer{ID: "c1", UserID: "u1", Name: "Walk-in"}))
	require.NoError(t, repo.Create(ctx, &models.Customer{ID: "c2", UserID: "u1", Name: "Walk-in"}))

	customers, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestConcurrentCustomerCreateKeepsPhoneUnique(t *testing.T) {
	repo := NewCustomerDocRepo(docstore.New())
	ctx := context.Background()

	const n = 16
	var created int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &models.Customer{
				ID:        fmt.Sprintf("c%d", i),
				UserID:    "u1",
				Name:      fmt.Sprintf("caller-%d", i),
				Phone:     "9876543210",
				CreatedAt: time.Now(),
			})
			if err == nil {
				atomic.AddInt64(&created, 1)
			} else if !errors.Is(err, ErrValidation) {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), created)
	customer, err := repo.GetByPhone(ctx, "u1", "9876543210")
	require.NoError(t, err)
	customers, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, customers, 1)
	assert.Equal(t, customer.ID, customers[0].ID)
}

func TestConcurrentUserCreateKeepsPhoneUnique(t *testing.T) {
	repo := NewUserDocRepo(docstore.New())
	ctx := context.Background()

	const n = 16
	var created int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &models.User{
				ID:    fmt.Sprintf("user-%d", i),
				Phone: "9876543210",
				Name:  fmt.Sprintf("caller-%d", i),
			})
			if err == nil {
				atomic.AddInt64(&created, 1)
			} else if !errors.Is(err, ErrValidation) {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), created)
	_, err := repo.GetByPhone(ctx, "9876543210")
	assert.NoError(t, err)
}
