package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the Avi auth backend.
// It is constructed once in main via Load and passed by reference to
// everything that needs it; there is no package-level mutable state.
type Config struct {
	Port        string
	Environment string // "development", "staging", "production"
	LogLevel    string

	JWTSecret        string
	JWTTokenLifespan time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Reset tokens are valid for this long after issuance.
	ResetTokenTTL time.Duration

	AWSRegion         string
	AWSSESEmailSender string
	FrontendBaseURL   string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present (local development); missing keys fall back to
// defaults suitable for development only.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "avi_user"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "avi_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AWSRegion:         getEnv("AWS_REGION", ""),
		AWSSESEmailSender: getEnv("AWS_SES_EMAIL_SENDER", ""),
		FrontendBaseURL:   getEnv("FRONTEND_BASE_URL", "http://localhost"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	}

	cfg.JWTTokenLifespan = time.Duration(getEnvAsInt("JWT_TOKEN_LIFESPAN_HOURS", 24)) * time.Hour
	cfg.ResetTokenTTL = time.Duration(getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 60)) * time.Minute

	return cfg, nil
}

// DSN assembles the postgres connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL assembles the URL form of the connection string, as
// expected by golang-migrate.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsDevelopment reports whether the app runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the integer value of an environment variable or a default.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, valStr, defaultValue)
		return defaultValue
	}
	return val
}
