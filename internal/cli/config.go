package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secops-tools/snyk-ignore/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, cfgPath, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return &ExitError{Code: ExitConfig, Message: fmt.Sprintf("failed to load config: %v", err)}
			}

			if cfgPath == "" {
				fmt.Fprintln(out, "No config file found, validating defaults")
			} else {
				fmt.Fprintf(out, "Validating config: %s\n", cfgPath)
			}

			if errs := config.Validate(cfg); len(errs) > 0 {
				fmt.Fprintln(out, "\nValidation errors:")
				for _, e := range errs {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return &ExitError{Code: ExitConfig, Message: "configuration is invalid"}
			}

			tokenState := "not set"
			if cfg.ResolveToken() != "" {
				tokenState = "set"
			}

			fmt.Fprintln(out, "\nConfiguration is valid!")
			fmt.Fprintf(out, "  - API URL: %s\n", cfg.Snyk.APIURL)
			fmt.Fprintf(out, "  - Token: %s (env %s)\n", tokenState, cfg.Snyk.TokenEnv)
			fmt.Fprintf(out, "  - Timeout: %s\n", cfg.Snyk.Timeout())
			fmt.Fprintf(out, "  - Retry: %d attempts, %s default delay, %s max delay\n",
				cfg.Retry.MaxAttempts, cfg.Retry.DefaultDelay(), cfg.Retry.MaxDelay())
			fmt.Fprintf(out, "  - Rate limit: %.1f requests/s\n", cfg.RateLimits.SnykRPS)
			fmt.Fprintf(out, "  - Fixability lookup: %t\n", cfg.Fixability.Lookup)

			return nil
		},
	}
}
