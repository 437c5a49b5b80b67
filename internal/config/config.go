package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	EnvProduction = "production"
)

type Config struct {
	ServerPort  string
	Environment string
	StoreDriver string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	JWTExpiry   time.Duration
	ClientURL   string
	AppName     string
	SMTP        SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Enabled reports whether outgoing mail should go through an SMTP server.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads a local .env file when present and then builds the config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadConfig()
}

func LoadConfig() (*Config, error) {
	expiryStr := getEnv("JWT_EXPIRY", "168h")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil || expiry <= 0 {
		return nil, errors.New("invalid JWT_EXPIRY format")
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("invalid SMTP_PORT")
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		StoreDriver: getEnv("STORE_DRIVER", StorePostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTExpiry:   expiry,
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),
		AppName:     getEnv("APP_NAME", "Auth Flow"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "hello@demomailtrap.com"),
			FromName: getEnv("MAIL_FROM_NAME", "Auth Flow"),
		},
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
