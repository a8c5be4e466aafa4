package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
	Images   ImagesConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	SessionTTL       time.Duration
	PBKDF2Iterations int
	MaxFailedLogins  int
	LockDuration     time.Duration
	ResetTokenSecret string
	ResetTokenTTL    time.Duration
	// SessionSchema overrides the startup schema probe: "modern", "legacy",
	// "both", or "" to probe.
	SessionSchema string
}

type EmailConfig struct {
	Enabled   bool
	APIKey    string
	FromEmail string
	FromName  string
	ResetURL  string
}

type ImagesConfig struct {
	Enabled   bool
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	PublicURL string
}

func Load() (*Config, error) {
	// Load .env if present (optional in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "sbs"),
			Password: getEnv("DB_PASSWORD", "sbs"),
			DBName:   getEnv("DB_NAME", "sbsdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getBoolEnv("DB_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			SessionTTL:       getDurationEnv("AUTH_SESSION_TTL", 30*24*time.Hour),
			PBKDF2Iterations: getIntEnv("AUTH_PBKDF2_ITERATIONS", 120000),
			MaxFailedLogins:  getIntEnv("AUTH_MAX_FAILED_LOGINS", 5),
			LockDuration:     getDurationEnv("AUTH_LOCK_DURATION", 15*time.Minute),
			ResetTokenSecret: getEnv("AUTH_RESET_TOKEN_SECRET", ""),
			ResetTokenTTL:    getDurationEnv("AUTH_RESET_TOKEN_TTL", time.Hour),
			SessionSchema:    getEnv("SESSION_SCHEMA", ""),
		},
		Email: EmailConfig{
			Enabled:   getBoolEnv("EMAIL_ENABLED", false),
			APIKey:    getEnv("EMAIL_RESEND_API_KEY", ""),
			FromEmail: getEnv("EMAIL_FROM", "noreply@thesbsofficial.com"),
			FromName:  getEnv("EMAIL_FROM_NAME", "SBS"),
			ResetURL:  getEnv("EMAIL_RESET_URL", "https://thesbsofficial.com/reset-password"),
		},
		Images: ImagesConfig{
			Enabled:   getBoolEnv("IMAGES_ENABLED", false),
			Region:    getEnv("IMAGES_S3_REGION", "auto"),
			Bucket:    getEnv("IMAGES_S3_BUCKET", ""),
			AccessKey: getEnv("IMAGES_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("IMAGES_S3_SECRET_KEY", ""),
			Endpoint:  getEnv("IMAGES_S3_ENDPOINT", ""),
			PublicURL: getEnv("IMAGES_PUBLIC_URL", ""),
		},
	}

	if cfg.Auth.ResetTokenSecret == "" && cfg.Server.Environment == "production" {
		return nil, fmt.Errorf("AUTH_RESET_TOKEN_SECRET is required in production")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
