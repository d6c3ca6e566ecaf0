package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/models"
)

type CartStore interface {
	Load(ctx context.Context, userID string) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) error
	Clear(ctx context.Context, userID string) error
}

// RedisCartStore keeps one cart per user under cart:<userId>. Every write
// resets the expiry.
type RedisCartStore struct {
	cache *JSONCache
	ttl   time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{cache: NewJSONCache(client, "cart"), ttl: ttl}
}

// Load returns an empty cart when the user has none.
func (s *RedisCartStore) Load(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := s.cache.Get(ctx, userID, &cart)
	if errors.Is(err, ErrMiss) {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.UserID = userID
	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart models.Cart) error {
	cart.UpdatedAt = time.Now()
	return s.cache.Set(ctx, cart.UserID, cart, s.ttl)
}

func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, userID)
}
