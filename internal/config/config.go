package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the service reads from the environment. Missing
// required credentials abort startup; per-request failures never do.
type Config struct {
	Port string

	// WhatsApp Cloud API
	VerifyToken     string
	WhatsAppToken   string
	PhoneNumberID   string
	GraphAPIBaseURL string

	// Static token guarding the read-only attendance listing.
	AdminToken string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	OfficesFile string

	// Zero disables the expiry check entirely.
	PendingRequestTTL time.Duration
	// Zero disables the background sweep; expiry is then only checked lazily.
	PendingSweepInterval time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		VerifyToken:     os.Getenv("VERIFY_TOKEN"),
		WhatsAppToken:   os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID:   os.Getenv("PHONE_NUMBER_ID"),
		GraphAPIBaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v20.0"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		OfficesFile:     getEnv("OFFICES_FILE", "config/offices.yaml"),
	}

	for _, required := range []struct{ key, val string }{
		{"VERIFY_TOKEN", cfg.VerifyToken},
		{"WHATSAPP_TOKEN", cfg.WhatsAppToken},
		{"PHONE_NUMBER_ID", cfg.PhoneNumberID},
		{"DB_HOST", cfg.DBHost},
		{"DB_USER", cfg.DBUser},
		{"DB_NAME", cfg.DBName},
	} {
		if required.val == "" {
			return Config{}, fmt.Errorf("%s is required", required.key)
		}
	}

	ttl, err := parseDuration("PENDING_REQUEST_TTL")
	if err != nil {
		return Config{}, err
	}
	cfg.PendingRequestTTL = ttl

	sweep, err := parseDuration("PENDING_SWEEP_INTERVAL")
	if err != nil {
		return Config{}, err
	}
	cfg.PendingSweepInterval = sweep

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
