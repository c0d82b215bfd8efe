package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"bharatbiz/internal/models"
)

// CacheService fronts redis for hot ledger reads and chat rate limiting.
// Callers treat every error as a cache miss; the ledger is always the source
// of truth.
type CacheService interface {
	GetCustomer(ctx context.Context, userID, name string) (*models.Customer, error)
	SetCustomer(ctx context.Context, customer *models.Customer, ttl time.Duration) error
	DeleteCustomer(ctx context.Context, userID, name string) error

	GetTodayRevenue(ctx context.Context, userID string) (float64, bool, error)
	SetTodayRevenue(ctx context.Context, userID string, revenue float64, ttl time.Duration) error
	InvalidateTodayRevenue(ctx context.Context, userID string) error

	// Analytics payloads are opaque JSON; Get returns nil on a miss.
	GetAnalytics(ctx context.Context, userID string) ([]byte, error)
	SetAnalytics(ctx context.Context, userID string, payload []byte, ttl time.Duration) error
	InvalidateAnalytics(ctx context.Context, userID string) error

	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// style addresses as well as bare host:port.
	addr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed, cache will degrade to misses")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetCustomer(ctx context.Context, userID, name string) (*models.Customer, error) {
	data, err := r.client.Get(ctx, customerKey(userID, name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var customer models.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *redisCacheService) SetCustomer(ctx context.Context, customer *models.Customer, ttl time.Duration) error {
	data, err := json.Marshal(customer)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, customerKey(customer.UserID, customer.Name), data, ttl).Err()
}

func (r *redisCacheService) DeleteCustomer(ctx context.Context, userID, name string) error {
	return r.client.Del(ctx, customerKey(userID, name)).Err()
}

func (r *redisCacheService) GetTodayRevenue(ctx context.Context, userID string) (float64, bool, error) {
	val, err := r.client.Get(ctx, revenueKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil // cache miss
		}
		return 0, false, err
	}
	revenue, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return revenue, true, nil
}

func (r *redisCacheService) SetTodayRevenue(ctx context.Context, userID string, revenue float64, ttl time.Duration) error {
	return r.client.Set(ctx, revenueKey(userID), strconv.FormatFloat(revenue, 'f', -1, 64), ttl).Err()
}

func (r *redisCacheService) InvalidateTodayRevenue(ctx context.Context, userID string) error {
	return r.client.Del(ctx, revenueKey(userID)).Err()
}

func (r *redisCacheService) GetAnalytics(ctx context.Context, userID string) ([]byte, error) {
	data, err := r.client.Get(ctx, analyticsKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) SetAnalytics(ctx context.Context, userID string, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, analyticsKey(userID), payload, ttl).Err()
}

func (r *redisCacheService) InvalidateAnalytics(ctx context.Context, userID string) error {
	return r.client.Del(ctx, analyticsKey(userID)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("bharatbiz:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func customerKey(userID, name string) string {
	return fmt.Sprintf("bharatbiz:customer:%s:%s", userID, name)
}

func revenueKey(userID string) string {
	return fmt.Sprintf("bharatbiz:revenue:%s", userID)
}

func analyticsKey(userID string) string {
	return fmt.Sprintf("bharatbiz:analytics:%s", userID)
}
