package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL   = "https://api.snyk.io/v1"
	DefaultTokenEnv = "SNYK_TOKEN"
)

// Config represents the full application configuration
type Config struct {
	Snyk       SnykConfig       `yaml:"snyk" toml:"snyk"`
	Retry      RetryConfig      `yaml:"retry" toml:"retry"`
	RateLimits RateLimitsConfig `yaml:"rate_limits" toml:"rate_limits"`
	Fixability FixabilityConfig `yaml:"fixability" toml:"fixability"`
}

// SnykConfig contains API connection settings
type SnykConfig struct {
	APIURL         string `yaml:"api_url" toml:"api_url"`
	Token          string `yaml:"token" toml:"token"`
	TokenEnv       string `yaml:"token_env" toml:"token_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout
func (c SnykConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryConfig bounds the backoff applied to rate-limited calls
type RetryConfig struct {
	MaxAttempts         int `yaml:"max_attempts" toml:"max_attempts"`
	DefaultDelaySeconds int `yaml:"default_delay_seconds" toml:"default_delay_seconds"`
	MaxDelaySeconds     int `yaml:"max_delay_seconds" toml:"max_delay_seconds"`
}

// DefaultDelay is the wait used when a 429 carries no Retry-After hint
func (c RetryConfig) DefaultDelay() time.Duration {
	return time.Duration(c.DefaultDelaySeconds) * time.Second
}

// MaxDelay caps any single wait
func (c RetryConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelaySeconds) * time.Second
}

// RateLimitsConfig contains client-side pacing settings
type RateLimitsConfig struct {
	SnykRPS float64 `yaml:"snyk_requests_per_second" toml:"snyk_requests_per_second"`
}

// FixabilityConfig controls the pre-submit fixability lookup
type FixabilityConfig struct {
	Lookup bool `yaml:"lookup" toml:"lookup"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses config from the given path.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadOrDefault loads the config found by FindConfigPath, or the defaults when none exists
func LoadOrDefault(explicit string) (*Config, string, error) {
	path := FindConfigPath(explicit)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		".snyk-ignore.yaml",
		"snyk-ignore.yaml",
		"snyk-ignore.yml",
		"snyk-ignore.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "snyk-ignore", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Snyk.APIURL == "" {
		cfg.Snyk.APIURL = DefaultAPIURL
	}
	cfg.Snyk.APIURL = strings.TrimRight(cfg.Snyk.APIURL, "/")
	if cfg.Snyk.TokenEnv == "" {
		cfg.Snyk.TokenEnv = DefaultTokenEnv
	}
	if cfg.Snyk.TimeoutSeconds == 0 {
		cfg.Snyk.TimeoutSeconds = 30
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 5
	}
	if cfg.Retry.DefaultDelaySeconds == 0 {
		cfg.Retry.DefaultDelaySeconds = 10
	}
	if cfg.Retry.MaxDelaySeconds == 0 {
		cfg.Retry.MaxDelaySeconds = 300
	}
	if cfg.RateLimits.SnykRPS == 0 {
		cfg.RateLimits.SnykRPS = 10
	}
	// Fixability.Lookup defaults to false: disregardIfFixable is then enforced server-side
}
