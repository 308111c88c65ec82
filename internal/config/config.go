package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server, loaded from the
// environment (optionally seeded from a .env file).
type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	TokenExpiry time.Duration

	// NotificationWindow is how long an ephemeral notification stays
	// visible before it self-destructs.
	NotificationWindow time.Duration

	// ReminderCron is the cron spec for the evening streak-risk sweep.
	ReminderCron string
}

// LoadConfig reads configuration from the environment. A missing .env file is
// fine; missing required values are not.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB", "vivomejor"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenExpiry:        getEnvDuration("TOKEN_EXPIRY", 24*time.Hour),
		NotificationWindow: getEnvDuration("NOTIFICATION_WINDOW", 3000*time.Millisecond),
		ReminderCron:       getEnv("REMINDER_CRON", "0 21 * * *"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
