package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port              string
	Env               string
	LogLevel          string
	CORSAllowedOrigin string
	AppBaseURL        string
	OpsAPIKey         string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret            string
	JWTExpirationDur     time.Duration
	RefreshExpirationDur time.Duration

	// Password reset
	PasswordResetTTL   time.Duration
	ResetPurgeSchedule string

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Reports
	TopExpensesMax int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:              getEnv("PORT", "4000"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", ""),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:3000"),
		OpsAPIKey:         getEnv("OPS_API_KEY", ""),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fintrack"),
		DBPassword: getEnv("DB_PASSWORD", "fintrack"),
		DBName:     getEnv("DB_NAME", "fintrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "fintrack.db"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		ResetPurgeSchedule: getEnv("RESET_PURGE_SCHEDULE", "@hourly"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@fintrack.local"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.RefreshExpirationDur = getDuration("REFRESH_EXPIRES_IN", 7*24*time.Hour)
	config.PasswordResetTTL = getDuration("PASSWORD_RESET_TTL", time.Hour)

	topMax, err := strconv.Atoi(getEnv("TOP_EXPENSES_MAX", "100"))
	if err != nil || topMax < 1 {
		log.Printf("Warning: invalid TOP_EXPENSES_MAX value, falling back to 100\n")
		topMax = 100
	}
	config.TopExpensesMax = topMax

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process-wide configuration. Tests use it to pin secrets and TTLs.
func Set(cfg *Config) {
	appConfig = cfg
}

// PostgresURL returns the URL form of the connection string used by golang-migrate.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, fallback)
		return fallback
	}
	return d
}
