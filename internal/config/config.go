package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hntwatch/hntwatch/internal/validate"
)

// Config holds all hntwatch configuration loaded from environment variables.
type Config struct {
	Wallets              []string `envconfig:"HW_WALLETS"`
	Hotspots             []string `envconfig:"HW_HOTSPOTS" required:"true"`
	APITimeoutSec        int      `envconfig:"HW_API_TIMEOUT_SEC" default:"10"`
	PollIntervalMin      int      `envconfig:"HW_POLL_INTERVAL_MIN" default:"15"`
	PricePollIntervalMin int      `envconfig:"HW_PRICE_POLL_INTERVAL_MIN" default:"2"`
	Port                 int      `envconfig:"HW_PORT" default:"8090"`
	LogLevel             string   `envconfig:"HW_LOG_LEVEL" default:"info"`
	LogDir               string   `envconfig:"HW_LOG_DIR" default:"./logs"`
	DBPath               string   `envconfig:"HW_DB_PATH" default:"./data/hntwatch.sqlite"`
}

// Load reads configuration from .env file (if present) then from environment variables.
func Load() (*Config, error) {
	envFiles := []string{".env"}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				slog.Warn("failed to load .env file", "file", f, "error", err)
			} else {
				slog.Info("loaded .env file", "file", f)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if len(c.Hotspots) == 0 {
		return fmt.Errorf("invalid config: HW_HOTSPOTS must list at least one hotspot address")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid config: port must be 1-65535, got %d", c.Port)
	}
	if c.APITimeoutSec < 1 || c.APITimeoutSec > MaxAPITimeoutSec {
		return fmt.Errorf("invalid config: HW_API_TIMEOUT_SEC must be 1-%d, got %d", MaxAPITimeoutSec, c.APITimeoutSec)
	}
	if c.PollIntervalMin < 1 || c.PollIntervalMin > MaxPollIntervalMin {
		return fmt.Errorf("invalid config: HW_POLL_INTERVAL_MIN must be 1-%d, got %d", MaxPollIntervalMin, c.PollIntervalMin)
	}
	if c.PricePollIntervalMin < 1 || c.PricePollIntervalMin > MaxPollIntervalMin {
		return fmt.Errorf("invalid config: HW_PRICE_POLL_INTERVAL_MIN must be 1-%d, got %d", MaxPollIntervalMin, c.PricePollIntervalMin)
	}

	for _, addr := range c.Wallets {
		if err := validate.Address(addr); err != nil {
			return fmt.Errorf("invalid config: wallet address: %w", err)
		}
	}
	for _, addr := range c.Hotspots {
		if err := validate.Address(addr); err != nil {
			return fmt.Errorf("invalid config: hotspot address: %w", err)
		}
	}

	return nil
}

// APITimeout returns the configured HTTP client timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSec) * time.Second
}

// PollInterval returns the wallet/hotspot/stats poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMin) * time.Minute
}

// PricePollInterval returns the oracle price poll interval.
func (c *Config) PricePollInterval() time.Duration {
	return time.Duration(c.PricePollIntervalMin) * time.Minute
}
