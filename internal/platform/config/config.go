package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: IMAGE_PROBE_CONCURRENCY must be 1-100")
	errNonPositiveTimeout    = errors.New("config: timeouts must be positive")
	errInvalidRateLimit      = errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	// FetchTimeout bounds the single GET of the audited page.
	FetchTimeout time.Duration
	// ImageProbeTimeout bounds each best-effort image preview fetch.
	ImageProbeTimeout     time.Duration
	ImageProbeConcurrency int

	// AcceptAliasInput enables the "reportanalysis@<domain>" input form.
	AcceptAliasInput     bool
	BlockPrivateNetworks bool

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "ERROR"),
		FetchTimeout:          getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		ImageProbeTimeout:     getEnvAsDuration("IMAGE_PROBE_TIMEOUT", 5*time.Second),
		ImageProbeConcurrency: getEnvAsInt("IMAGE_PROBE_CONCURRENCY", 10),
		AcceptAliasInput:      getEnvAsBool("ACCEPT_ALIAS_INPUT", true),
		BlockPrivateNetworks:  getEnvAsBool("BLOCK_PRIVATE_NETWORKS", true),
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 10),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.ImageProbeConcurrency < 1 || c.ImageProbeConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.ImageProbeConcurrency)
	}

	if c.FetchTimeout <= 0 || c.ImageProbeTimeout <= 0 {
		return fmt.Errorf("%w: fetch=%s image=%s", errNonPositiveTimeout, c.FetchTimeout, c.ImageProbeTimeout)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rps=%g burst=%d", errInvalidRateLimit, c.RateLimitRPS, c.RateLimitBurst)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go duration strings ("10s", "1500ms").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
