package config

import (
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Snyk.APIURL = expandEnvVars(cfg.Snyk.APIURL)
	cfg.Snyk.Token = expandEnvVars(cfg.Snyk.Token)
}

// ResolveToken returns the API token: the environment variable named by
// token_env wins, then the config file value. Unexpanded ${VAR} references count as unset.
func (cfg *Config) ResolveToken() string {
	if v := strings.TrimSpace(os.Getenv(cfg.Snyk.TokenEnv)); v != "" {
		return v
	}
	token := strings.TrimSpace(cfg.Snyk.Token)
	if envVarPattern.MatchString(token) {
		return ""
	}
	return token
}
