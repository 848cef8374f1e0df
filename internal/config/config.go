package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mikelcoira/vat-number-geo/internal/checker"
)

const (
	defaultHTTPTimeout      = 10 * time.Second
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 10 * time.Second
	defaultViesRateLimit    = 5.0
)

type Config struct {
	ViesBaseURL   string
	AxesorBaseURL string

	// HTTPTimeout bounds every remote call; the upstream services define no
	// timeout of their own.
	HTTPTimeout time.Duration

	BreakerFailureThreshold int
	BreakerRecoveryTimeout  time.Duration

	// ViesRateLimit is the politeness cap on registry lookups in requests
	// per second; 0 disables it.
	ViesRateLimit float64

	AppLogLevel slog.Level
}

func New() (*Config, error) {
	cfg := Config{
		ViesBaseURL:             checker.DefaultVIESBaseURL,
		AxesorBaseURL:           checker.DefaultAxesorBaseURL,
		HTTPTimeout:             defaultHTTPTimeout,
		BreakerFailureThreshold: defaultFailureThreshold,
		BreakerRecoveryTimeout:  defaultRecoveryTimeout,
		ViesRateLimit:           defaultViesRateLimit,
		AppLogLevel:             slog.LevelInfo,
	}

	if v := os.Getenv("LOCATE_VIES_BASE_URL"); v != "" {
		cfg.ViesBaseURL = v
	}
	if v := os.Getenv("LOCATE_AXESOR_BASE_URL"); v != "" {
		cfg.AxesorBaseURL = v
	}

	cfg.HTTPTimeout = envDuration("LOCATE_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.BreakerRecoveryTimeout = envDuration("LOCATE_BREAKER_RECOVERY_TIMEOUT", cfg.BreakerRecoveryTimeout)

	if v := os.Getenv("LOCATE_BREAKER_FAILURE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BreakerFailureThreshold = n
		} else {
			slog.Warn("invalid LOCATE_BREAKER_FAILURE_THRESHOLD, using default", "value", v, "default", defaultFailureThreshold)
		}
	}

	if v := os.Getenv("LOCATE_VIES_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ViesRateLimit = f
		} else {
			slog.Warn("invalid LOCATE_VIES_RATE_LIMIT, using default", "value", v, "default", defaultViesRateLimit)
		}
	}

	if v := os.Getenv("LOCATE_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			cfg.AppLogLevel = level
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and valid
func (c *Config) Validate() error {
	if c.ViesBaseURL == "" {
		return errors.New("LOCATE_VIES_BASE_URL must not be empty")
	}
	if c.AxesorBaseURL == "" {
		return errors.New("LOCATE_AXESOR_BASE_URL must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("LOCATE_HTTP_TIMEOUT must be positive")
	}
	if c.BreakerFailureThreshold <= 0 {
		return errors.New("LOCATE_BREAKER_FAILURE_THRESHOLD must be positive")
	}
	if c.BreakerRecoveryTimeout <= 0 {
		return errors.New("LOCATE_BREAKER_RECOVERY_TIMEOUT must be positive")
	}
	if c.ViesRateLimit < 0 {
		return errors.New("LOCATE_VIES_RATE_LIMIT must not be negative")
	}
	return nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "var", name, "value", v, "default", fallback)
		return fallback
	}
	return d
}
