package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/internal/pipeline"
	"github.com/secops-tools/snyk-ignore/internal/pipeline/steps"
	"github.com/secops-tools/snyk-ignore/internal/processor"
	"github.com/secops-tools/snyk-ignore/internal/snyk"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

func newApplyCmd() *cobra.Command {
	var (
		opts        config.Options
		apiURL      string
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit an ignore for every issue in a CSV",
		Long: `Read the ISSUE_URL column of a CSV and ignore each issue through the Snyk API.

The reason is --text, the row's --ignore-text-column value, or both joined with
a space. The API token is read from SNYK_TOKEN unless the config names another
variable.`,
		Example: `  snyk-ignore apply --file issues.csv --type wont-fix --text "Accepted risk"
  snyk-ignore apply --file issues.csv --type temporary-ignore --ignore-text-column NOTE --expires 2025-12-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return &ExitError{Code: ExitConfig, Message: fmt.Sprintf("failed to load config: %v", err)}
			}
			if apiURL != "" {
				cfg.Snyk.APIURL = strings.TrimRight(apiURL, "/")
			}
			if maxAttempts > 0 {
				cfg.Retry.MaxAttempts = maxAttempts
			}
			opts.DryRun = dryRun

			token := cfg.ResolveToken()
			if errs := config.ValidateRun(cfg, opts, token); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "config error: %v\n", e)
				}
				return &ExitError{Code: ExitConfig, Message: "invalid configuration"}
			}

			logger := newLogger(cmd.ErrOrStderr(), verbose)
			defer func() { _ = logger.Sync() }()
			if cfgPath != "" {
				logger.Debug("loaded config", zap.String("path", cfgPath))
			}

			table, err := processor.LoadFile(opts.File, opts.TextColumn)
			if err != nil {
				return &ExitError{Code: ExitConfig, Message: err.Error()}
			}

			clientOpts := snyk.OptionsFromConfig(cfg, token)
			clientOpts.UserAgent = "snyk-ignore/" + version
			clientOpts.Logger = logger
			if debug {
				clientOpts.HTTPLog = cmd.ErrOrStderr()
			}
			client, err := snyk.NewClient(clientOpts)
			if err != nil {
				return &ExitError{Code: ExitConfig, Message: fmt.Sprintf("failed to create Snyk client: %v", err)}
			}
			defer client.Close()

			var fixability steps.FixabilityChecker
			if cfg.Fixability.Lookup && opts.DisregardIfFixable {
				fixability = snyk.NewFixabilityChecker(client)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			proc := processor.NewProcessor(opts, pipeline.NewBuilder(client, fixability, opts.DryRun).BuildDefault(), logger)
			result := proc.Run(ctx, table.Rows)

			processor.PrintResult(cmd.OutOrStdout(), result)

			if opts.FailedOut != "" && len(result.Failures) > 0 {
				if err := processor.WriteFailuresFile(opts.FailedOut, table, result); err != nil {
					logger.Error("failed to write failed rows", zap.String("path", opts.FailedOut), zap.Error(err))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Failed rows written to %s\n", opts.FailedOut)
				}
			}

			return exitFor(result)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "CSV file with an ISSUE_URL column")
	cmd.Flags().StringVar(&opts.Type, "type", "", fmt.Sprintf("ignore type (%s)", strings.Join(reasonTypeNames(), ", ")))
	cmd.Flags().StringVar(&opts.Text, "text", "", "ignore reason")
	cmd.Flags().StringVar(&opts.TextColumn, "ignore-text-column", "", "CSV column holding a per-row ignore reason")
	cmd.Flags().BoolVar(&opts.DisregardIfFixable, "disregard-if-fixable", false, "only ignore while no upgrade or patch is available")
	cmd.Flags().StringVar(&opts.Expires, "expires", "", "ignore expiry as an ISO-8601 date (e.g., 2025-12-31)")
	cmd.Flags().StringVar(&opts.IgnorePath, "ignore-path", models.DefaultIgnorePath, "dependency path the ignore applies to")
	cmd.Flags().StringVar(&opts.FailedOut, "failed-out", "", "write failed and skipped rows to this CSV")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempts per request while rate limited (overrides config)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Snyk v1 API base URL (overrides config)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func exitFor(result *models.RunResult) error {
	switch {
	case result.Interrupted:
		return &ExitError{Code: ExitInterrupted, Message: "interrupted"}
	case !result.OK():
		return &ExitError{
			Code:    ExitRowErrors,
			Message: fmt.Sprintf("%d rows failed, %d skipped", result.Failed, result.Skipped),
		}
	}
	return nil
}

func reasonTypeNames() []string {
	names := make([]string, len(models.ReasonTypes))
	for i, rt := range models.ReasonTypes {
		names[i] = string(rt)
	}
	return names
}
