package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/internal/validator"
)

// ServerConfig holds the product search service configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT" validate:"gte=1,lte=65535"`
	Environment     string        `yaml:"environment" env:"ENVIRONMENT" validate:"oneof=local dev prod"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	MaxRequestBytes int64         `yaml:"max_request_bytes" env:"MAX_REQUEST_BYTES" validate:"gt=0"`
	JobWorkers      int           `yaml:"job_workers" env:"JOB_WORKERS" validate:"gt=0"`
	RateLimit       RateLimit     `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Catalog         CatalogConfig `yaml:"catalog" envPrefix:"CATALOG_"`
	Search          SearchConfig  `yaml:"search" envPrefix:"SEARCH_"`
}

// RateLimit bounds requests per client IP with a token bucket. A zero RPS
// disables limiting.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RPS" validate:"gte=0"`
	Burst int     `yaml:"burst" env:"BURST" validate:"gte=0"`
}

// CatalogConfig selects and tunes the catalog source. Path and URL are
// mutually exclusive; with neither set, requests must carry their products.
type CatalogConfig struct {
	Path               string        `yaml:"path" env:"PATH"`
	URL                string        `yaml:"url" env:"URL" validate:"omitempty,url"`
	CacheTTL           time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" validate:"gte=0"`
	Timeout            time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gt=0"`
	BreakerMaxFailures uint32        `yaml:"breaker_max_failures" env:"BREAKER_MAX_FAILURES" validate:"gt=0"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout" env:"BREAKER_OPEN_TIMEOUT" validate:"gt=0"`
}

// SearchConfig holds server-wide search defaults.
type SearchConfig struct {
	Threshold             float64            `yaml:"threshold" env:"THRESHOLD" validate:"gte=0,lte=1"`
	FieldWeights          map[string]float64 `yaml:"field_weights" env:"FIELD_WEIGHTS" validate:"omitempty,dive,gte=0"`
	Limit                 int                `yaml:"limit" env:"LIMIT" validate:"gte=0"`
	SparseResultThreshold int                `yaml:"sparse_result_threshold" env:"SPARSE_RESULT_THRESHOLD" validate:"gte=0"`
	SuggestionSize        int                `yaml:"suggestion_size" env:"SUGGESTION_SIZE" validate:"gte=0"`
	AutocompleteLimit     int                `yaml:"autocomplete_limit" env:"AUTOCOMPLETE_LIMIT" validate:"gt=0"`
	AnalyticsCapacity     int                `yaml:"analytics_capacity" env:"ANALYTICS_CAPACITY" validate:"gt=0"`
}

// DefaultServerConfig returns the configuration used when nothing overrides it.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8080,
		Environment:     "local",
		MaxRequestBytes: 10 << 20,
		JobWorkers:      2,
		Catalog: CatalogConfig{
			CacheTTL:           5 * time.Minute,
			Timeout:            10 * time.Second,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Search: SearchConfig{
			Threshold:             DefaultThreshold,
			FieldWeights:          DefaultFieldWeights(),
			SparseResultThreshold: 4,
			SuggestionSize:        8,
			AutocompleteLimit:     6,
			AnalyticsCapacity:     1000,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables, and validates the result.
func Load(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return ServerConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ServerConfig{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for correctness.
func (c ServerConfig) Validate() error {
	if err := validator.Validate(c); err != nil {
		return err
	}
	if c.Catalog.Path != "" && c.Catalog.URL != "" {
		return apperrors.NewValidationError("catalog", "path and url are mutually exclusive")
	}
	return c.SearchOptions().Validate()
}

// SearchOptions returns the default options for requests that do not override them.
func (c ServerConfig) SearchOptions() SearchOptions {
	opts := SearchOptions{
		Threshold:    c.Search.Threshold,
		FieldWeights: maps.Clone(c.Search.FieldWeights),
		Limit:        c.Search.Limit,
	}
	opts.ApplyDefaults()
	return opts
}
