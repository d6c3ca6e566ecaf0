package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	RedisURI          string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	AllowedOrigins    []string
	CartTTL           time.Duration
	CheckoutTTL       time.Duration
	PaymentDelay      time.Duration
	SendGridAPIKey    string
	MailFrom          string
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		MongoURI:          getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnvOrDefault("DB_NAME", "gucci-store"),
		RedisURI:          getEnvOrDefault("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 24*60, time.Minute),
		AllowedOrigins:    parseList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		CartTTL:           getDurationEnv("CART_TTL", 30, 24*time.Hour),
		CheckoutTTL:       getDurationEnv("CHECKOUT_TTL", 60, time.Minute),
		PaymentDelay:      getDurationEnv("PAYMENT_DELAY", 2000, time.Millisecond),
		SendGridAPIKey:    getEnvOrDefault("SENDGRID_API_KEY", ""),
		MailFrom:          getEnvOrDefault("MAIL_FROM", "orders@gucci-store.local"),
		SeedAdminEmail:    getEnvOrDefault("SEED_ADMIN_EMAIL", "admin@gucci.com"),
		SeedAdminPassword: getEnvOrDefault("SEED_ADMIN_PASSWORD", "SuperAdmin@2025"),
	}
	if AppEnv.JWTSecret == "" {
		log.Println("[CONFIG] [WARN] JWT_SECRET is empty, tokens are signed with an empty key")
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
