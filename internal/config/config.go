package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	UploadDir string
	BaseURL   string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	LogLevel string
}

// Load reads .env (if present) and builds the Config from the environment.
func Load() *Config {
	// Ignore error if .env file doesn't exist (e.g. in production)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		// Fallback to individual vars
		databaseURL = "postgres://" + getEnv("POSTGRES_USER", "postgres") + ":" +
			getEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			getEnv("POSTGRES_HOST", "localhost") + ":" +
			getEnv("POSTGRES_PORT", "5432") + "/" +
			getEnv("POSTGRES_DB", "photoshare") + "?sslmode=disable"
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: databaseURL,
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		AccessTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_MINUTES", 15)) * time.Minute,
		RefreshTTL:  time.Duration(getEnvInt("REFRESH_TOKEN_HOURS", 24*7)) * time.Hour,
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		BaseURL:     getEnv("BASE_URL", ""),
		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnvInt("SMTP_PORT", 587),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASSWORD", ""),
		MailFrom:    getEnv("MAIL_FROM", "noreply@photoshare.local"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the value of an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
