package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "https://${TEST_VAR}.example.com",
			expect: "https://test-value.example.com",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("SNYK_TEST_HOST", "api.eu.snyk.io")
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
snyk:
  api_url: "https://${SNYK_TEST_HOST}/v1/"
  token_env: "MY_SNYK_TOKEN"

retry:
  max_attempts: 3

fixability:
  lookup: true
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Snyk.APIURL != "https://api.eu.snyk.io/v1" {
		t.Errorf("Snyk.APIURL = %v, want https://api.eu.snyk.io/v1", cfg.Snyk.APIURL)
	}
	if cfg.Snyk.TokenEnv != "MY_SNYK_TOKEN" {
		t.Errorf("Snyk.TokenEnv = %v, want MY_SNYK_TOKEN", cfg.Snyk.TokenEnv)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %v, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.DefaultDelaySeconds != 10 {
		t.Errorf("Retry.DefaultDelaySeconds = %v, want 10", cfg.Retry.DefaultDelaySeconds)
	}
	if !cfg.Fixability.Lookup {
		t.Errorf("Fixability.Lookup = false, want true")
	}
}

func TestLoad_TOML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "snyk-ignore.toml")

	content := `
[snyk]
api_url = "https://api.us.snyk.io/v1"
timeout_seconds = 5

[rate_limits]
snyk_requests_per_second = 2.5
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Snyk.APIURL != "https://api.us.snyk.io/v1" {
		t.Errorf("Snyk.APIURL = %v", cfg.Snyk.APIURL)
	}
	if cfg.Snyk.TimeoutSeconds != 5 {
		t.Errorf("Snyk.TimeoutSeconds = %v, want 5", cfg.Snyk.TimeoutSeconds)
	}
	if cfg.RateLimits.SnykRPS != 2.5 {
		t.Errorf("RateLimits.SnykRPS = %v, want 2.5", cfg.RateLimits.SnykRPS)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("snyk: [not, a, map"), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Errorf("Load() error = nil, want parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load() error = nil, want read error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Snyk.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %v, want %v", cfg.Snyk.APIURL, DefaultAPIURL)
	}
	if cfg.Snyk.TokenEnv != "SNYK_TOKEN" {
		t.Errorf("TokenEnv = %v, want SNYK_TOKEN", cfg.Snyk.TokenEnv)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %v, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.MaxDelaySeconds != 300 {
		t.Errorf("MaxDelaySeconds = %v, want 300", cfg.Retry.MaxDelaySeconds)
	}
	if cfg.RateLimits.SnykRPS != 10 {
		t.Errorf("SnykRPS = %v, want 10", cfg.RateLimits.SnykRPS)
	}
	if cfg.Fixability.Lookup {
		t.Errorf("Fixability.Lookup = true, want false")
	}
}

func TestResolveToken(t *testing.T) {
	cfg := Default()

	t.Setenv("SNYK_TOKEN", "")
	if got := cfg.ResolveToken(); got != "" {
		t.Errorf("ResolveToken() = %q, want empty", got)
	}

	cfg.Snyk.Token = "${NOT_SET_ANYWHERE}"
	if got := cfg.ResolveToken(); got != "" {
		t.Errorf("ResolveToken() = %q, want empty for unexpanded reference", got)
	}

	cfg.Snyk.Token = "file-token"
	if got := cfg.ResolveToken(); got != "file-token" {
		t.Errorf("ResolveToken() = %q, want file-token", got)
	}

	t.Setenv("SNYK_TOKEN", "env-token")
	if got := cfg.ResolveToken(); got != "env-token" {
		t.Errorf("ResolveToken() = %q, want env-token", got)
	}
}
