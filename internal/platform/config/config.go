package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr              string
	DatabaseURL       string
	JWTSecret         string
	Environment       string
	SeedCompanyName   string
	SeedCompanyEmail  string
	SeedAdminEmail    string
	SeedAdminPassword string
	AdminAlertEmail   string
	EmailFrom         string
	EmailEnabled      bool
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	SMTPUseTLS        bool
	DocumentDir       string
	RunMigrations     bool
	RunSeed           bool
	SessionTTL        time.Duration
	MaxBodyBytes      int64
}

func Load() Config {
	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		Environment:       getEnv("APP_ENV", "development"),
		SeedCompanyName:   getEnv("SEED_COMPANY_NAME", "Demo Company"),
		SeedCompanyEmail:  getEnv("SEED_COMPANY_EMAIL", "privacy@democompany.com"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		AdminAlertEmail:   getEnv("ADMIN_ALERT_EMAIL", "admin@democompany.com"),
		EmailFrom:         getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:      getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:        getEnvBool("SMTP_USE_TLS", true),
		DocumentDir:       getEnv("DOCUMENT_DIR", "storage/documents"),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:           getEnvBool("RUN_SEED", true),
		SessionTTL:        getEnvDuration("SESSION_TTL", 2*time.Hour),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 65536)),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" && c.Environment == "production" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.Environment == "production" && c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least one minute")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
