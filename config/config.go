// Package config loads the moneyd configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/paykit/go-money/currency"
)

// Config holds the moneyd runtime configuration.
type Config struct {
	// Environment selects the logger profile: "production" or
	// "development".
	Environment string `yaml:"environment"`

	Server struct {
		// Address the HTTP server listens on.
		Address string `yaml:"address"`
	} `yaml:"server"`

	Log struct {
		// Level is the minimum zap level, e.g. "debug" or "info".
		Level string `yaml:"level"`
	} `yaml:"log"`

	// DefaultCurrency is used to format amounts when a request
	// does not name a currency.
	DefaultCurrency string `yaml:"default_currency"`

	Webhook struct {
		// URL balance events are posted to. Empty disables the
		// notifier.
		URL string `yaml:"url"`
	} `yaml:"webhook"`

	AMQP struct {
		// URL of the broker backing the worker. Empty selects the
		// in-memory worker.
		URL string `yaml:"url"`
	} `yaml:"amqp"`

	Sentry struct {
		// DSN enables sentry error reporting when non-empty.
		DSN string `yaml:"dsn"`
	} `yaml:"sentry"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() *Config {
	cfg := &Config{
		Environment:     "development",
		DefaultCurrency: string(currency.USD),
	}

	cfg.Server.Address = ":8080"
	cfg.Log.Level = "info"

	return cfg
}

// Load reads the configuration from path. A missing file is not an
// error: defaults plus environment overrides are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case os.IsNotExist(err):
			// fall through to defaults.

		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)

		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides file values with MONEYD_* environment variables.
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"MONEYD_ENVIRONMENT":      &c.Environment,
		"MONEYD_SERVER_ADDRESS":   &c.Server.Address,
		"MONEYD_LOG_LEVEL":        &c.Log.Level,
		"MONEYD_DEFAULT_CURRENCY": &c.DefaultCurrency,
		"MONEYD_WEBHOOK_URL":      &c.Webhook.URL,
		"MONEYD_AMQP_URL":         &c.AMQP.URL,
		"MONEYD_SENTRY_DSN":       &c.Sentry.DSN,
	}

	for name, target := range overrides {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("config: empty server address")
	}

	if _, err := currency.Parse(c.DefaultCurrency); err != nil {
		return fmt.Errorf("config: default currency: %w", err)
	}

	return nil
}

// Currency returns the validated default currency.
func (c *Config) Currency() currency.Currency {
	return currency.Currency(c.DefaultCurrency)
}
