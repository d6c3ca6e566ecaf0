package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/checkout"
)

type SessionStore interface {
	Get(ctx context.Context, id string) (*checkout.Session, error)
	Put(ctx context.Context, session *checkout.Session) error
	// ClaimPayment marks a payment as running on the session. Only the first
	// caller gets true until the claim is released or expires.
	ClaimPayment(ctx context.Context, id string) (bool, error)
	ReleasePayment(ctx context.Context, id string) error
}

type RedisSessionStore struct {
	cache *JSONCache
	ttl   time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: NewJSONCache(client, "checkout"), ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*checkout.Session, error) {
	var session checkout.Session
	err := s.cache.Get(ctx, id, &session)
	if errors.Is(err, ErrMiss) {
		return nil, checkout.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *checkout.Session) error {
	return s.cache.Set(ctx, session.ID, session, s.ttl)
}

func payKey(id string) string {
	return id + ":pay"
}

// ClaimPayment uses SETNX on checkout:<id>:pay. The claim lives as long as the
// session itself.
func (s *RedisSessionStore) ClaimPayment(ctx context.Context, id string) (bool, error) {
	return s.cache.Claim(ctx, payKey(id), s.ttl)
}

func (s *RedisSessionStore) ReleasePayment(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, payKey(id))
}
