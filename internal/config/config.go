package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidStart = errors.New("INVOICE_START must be positive")

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Facturas"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"facturas"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Auth struct {
		// Secret signs tenant tokens. Empty means tenants come from the X-Tenant header.
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Invoice struct {
		Prefix      string `envconfig:"INVOICE_PREFIX" default:"FAC-"`
		Start       int    `envconfig:"INVOICE_START" default:"1"`
		PaymentSeed uint64 `envconfig:"PAYMENT_SEED" default:"0"`
	}

	// Tenant is the ledger owner used by the terminal UI.
	Tenant string `envconfig:"TENANT" default:"local"`
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Invoice.Start < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStart, cfg.Invoice.Start)
	}

	return &cfg, nil
}
