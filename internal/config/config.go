// Package config loads runtime configuration from GRIDCERT_* environment
// variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the service.
type Config struct {
	Env          string        `envconfig:"ENV" default:"development"`
	Addr         string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`

	// Empty DSN runs the service on in-memory stores, which is how the
	// development sandbox and the test suite operate.
	PGDSN string `envconfig:"PG_DSN"`

	// Empty address disables the deposit-address cache.
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	DepositCacheTTL time.Duration `envconfig:"DEPOSIT_CACHE_TTL" default:"5m"`

	// Empty URL disables exchange integration entirely.
	ExchangeURL       string        `envconfig:"EXCHANGE_URL"`
	ExchangeToken     string        `envconfig:"EXCHANGE_TOKEN"`
	TradePollInterval time.Duration `envconfig:"TRADE_POLL_INTERVAL" default:"30s"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`

	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// Load reads configuration from GRIDCERT_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("gridcert", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
