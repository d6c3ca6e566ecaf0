package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("CHECKOUT_TTL", "15")
	assert.Equal(t, 15*time.Minute, getDurationEnv("CHECKOUT_TTL", 60, time.Minute))

	t.Setenv("CHECKOUT_TTL", "soon")
	assert.Equal(t, 60*time.Minute, getDurationEnv("CHECKOUT_TTL", 60, time.Minute))

	t.Setenv("CHECKOUT_TTL", "-5")
	assert.Equal(t, 60*time.Minute, getDurationEnv("CHECKOUT_TTL", 60, time.Minute))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DB_NAME", "  ")
	assert.Equal(t, "gucci-store", getEnvOrDefault("DB_NAME", "gucci-store"))

	t.Setenv("DB_NAME", "staging")
	assert.Equal(t, "staging", getEnvOrDefault("DB_NAME", "gucci-store"))
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseList(" http://a.test, ,http://b.test "))
	assert.Nil(t, parseList(""))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CART_TTL", "")
	t.Setenv("PAYMENT_DELAY", "250")
	t.Setenv("ALLOWED_ORIGINS", "http://shop.test")

	Load()

	assert.Equal(t, "8080", AppEnv.Port)
	assert.Equal(t, 30*24*time.Hour, AppEnv.CartTTL)
	assert.Equal(t, 250*time.Millisecond, AppEnv.PaymentDelay)
	assert.Equal(t, []string{"http://shop.test"}, AppEnv.AllowedOrigins)
}
