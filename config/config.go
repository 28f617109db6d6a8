package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath       string
	RedisURL           string
	JWTSecret          string
	ServerPort         string
	VerificationTTLHrs int
	StatusPollSeconds  int
}

// JWTSecret used to sign tokens — kept as a package variable so the
// middleware can reach it without threading the full config through.
var JWTSecret []byte

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "grocery_delivery.db"),
		RedisURL:           getEnv("REDIS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", "grocery_delivery_super_secret_2024"),
		ServerPort:         getEnv("PORT", "8080"),
		VerificationTTLHrs: getEnvAsInt("VERIFICATION_TTL_HOURS", 24),
		StatusPollSeconds:  getEnvAsInt("STATUS_POLL_SECONDS", 5),
	}
	JWTSecret = []byte(cfg.JWTSecret)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
