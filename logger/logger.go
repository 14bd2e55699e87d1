// Package logger builds the zap loggers used across the repo.
package logger

import (
	"fmt"

	"github.com/blendle/zapdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.Logger for the given environment:
// a production Stackdriver config for "production", a development
// config otherwise. The minimum level is parsed from level; an empty
// level keeps the config default.
func New(service, environment, level string) (*zap.Logger, error) {
	cfg := zapdriver.NewDevelopmentConfig()
	if environment == "production" {
		cfg = zapdriver.NewProductionConfig()
	}

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse level: %w", err)
		}

		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	return newLoggerFromConfig(cfg, service)
}

// NewStackdriverDevelopment returns a new *zap.Logger that supports
// Google Stackdriver's structured logging.
// Logging is enabled at DebugLevel and above.
func NewStackdriverDevelopment(service string) (*zap.Logger, error) {
	return newLoggerFromConfig(zapdriver.NewDevelopmentConfig(), service)
}

// NewStackdriverProduction returns a new *zap.Logger that supports
// Google Stackdriver's structured logging.
// Logging is enabled at InfoLevel and above.
func NewStackdriverProduction(service string) (*zap.Logger, error) {
	return newLoggerFromConfig(zapdriver.NewProductionConfig(), service)
}

// NewNop returns a logger that discards everything. Meant for tests
// and for components that treat their logger as optional.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func newLoggerFromConfig(cfg zap.Config, service string) (*zap.Logger, error) {
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{
		"service": service,
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config build: %w", err)
	}

	return log, nil
}
