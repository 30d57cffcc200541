package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// ConfigError represents a fatal configuration error found before any row is processed
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if u, err := url.Parse(cfg.Snyk.APIURL); err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		errs = append(errs, ConfigError{"snyk.api_url", "must be an absolute http(s) URL"})
	}

	if cfg.Snyk.TokenEnv == "" {
		errs = append(errs, ConfigError{"snyk.token_env", "required"})
	}

	if cfg.Snyk.TimeoutSeconds < 0 {
		errs = append(errs, ConfigError{"snyk.timeout_seconds", "must not be negative"})
	}

	if cfg.Retry.MaxAttempts < 1 {
		errs = append(errs, ConfigError{"retry.max_attempts", "must be at least 1"})
	}
	if cfg.Retry.DefaultDelaySeconds < 0 {
		errs = append(errs, ConfigError{"retry.default_delay_seconds", "must not be negative"})
	}
	if cfg.Retry.MaxDelaySeconds < cfg.Retry.DefaultDelaySeconds {
		errs = append(errs, ConfigError{"retry.max_delay_seconds", "must be at least retry.default_delay_seconds"})
	}

	if cfg.RateLimits.SnykRPS < 0 {
		errs = append(errs, ConfigError{"rate_limits.snyk_requests_per_second", "must not be negative"})
	}

	return errs
}

// ValidateRun checks the configuration, the command-line options and the token
// together. Any error returned is fatal for the run.
func ValidateRun(cfg *Config, opts Options, token string) []error {
	errs := Validate(cfg)

	if opts.File == "" {
		errs = append(errs, ConfigError{"file", "required"})
	}

	if opts.Type == "" {
		errs = append(errs, ConfigError{"type", "required"})
	} else if err := models.ValidateReasonType(opts.Type); err != nil {
		errs = append(errs, wrapValidation(err))
	}

	if strings.TrimSpace(opts.Text) == "" && opts.TextColumn == "" {
		errs = append(errs, ConfigError{"text", "at least one of --text or --ignore-text-column is required"})
	}

	if opts.Expires != "" {
		if err := models.ValidateExpiry(opts.Expires); err != nil {
			errs = append(errs, wrapValidation(err))
		}
	}

	if token == "" {
		errs = append(errs, ConfigError{"snyk.token", fmt.Sprintf("%s environment variable not set", cfg.Snyk.TokenEnv)})
	}

	return errs
}

func wrapValidation(err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return ConfigError{verr.Field, verr.Message}
	}
	return err
}
