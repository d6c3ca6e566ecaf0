package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestJSONCacheKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	carts := NewJSONCache(client, "cart")
	assert.Equal(t, "cart:64b000000000000000000001", carts.key("64b000000000000000000001"))

	sessions := NewRedisSessionStore(client, 0)
	assert.Equal(t, "checkout:abc", sessions.cache.key("abc"))
}

func TestPaymentClaimKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	sessions := NewRedisSessionStore(client, 0)
	assert.Equal(t, "checkout:abc:pay", sessions.cache.key(payKey("abc")))
}
