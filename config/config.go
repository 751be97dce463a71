package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"billing-backend/calculator"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"8080"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBDSN      string `envconfig:"DB_DSN"`
	DBHost     string `envconfig:"DB_HOST" default:"db"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBTimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`

	JWTSecret string `envconfig:"JWT_SECRET_KEY"`

	// Fiber's own default is 4 MiB. BODY_LIMIT_BYTES wins over BODY_LIMIT_MB.
	BodyLimitBytes int `envconfig:"BODY_LIMIT_BYTES"`
	BodyLimitMB    int `envconfig:"BODY_LIMIT_MB" default:"4"`

	AllowedOrigins  string        `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"60"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ShowTax bool `envconfig:"INVOICE_SHOW_TAX" default:"true"`
	ShowGST bool `envconfig:"INVOICE_SHOW_GST" default:"true"`

	RoundOffClearsAdjustment bool `envconfig:"ROUND_OFF_CLEARS_ADJUSTMENT" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT secret not configured (set JWT_SECRET_KEY)")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return &cfg, nil
}

// DSN returns DB_DSN when set, otherwise a postgres DSN built from parts.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "sqlite" {
		return "billing.db"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone)
}

// BodyLimit is the request body limit in bytes.
func (c *Config) BodyLimit() int {
	if c.BodyLimitBytes > 0 {
		return c.BodyLimitBytes
	}
	return c.BodyLimitMB * 1024 * 1024
}

func (c *Config) CalculatorPolicy() calculator.Policy {
	return calculator.Policy{RoundOffClearsAdjustment: c.RoundOffClearsAdjustment}
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
