package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	dryRun  bool
	verbose bool
	debug   bool
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snyk-ignore",
		Short: "Bulk-ignore Snyk issues from a CSV export",
		Long: `snyk-ignore reads a CSV of Snyk issue URLs and submits an ignore for each
issue through the Snyk v1 API.

Rows are processed one at a time. Failed or malformed rows never stop the run;
they are reported at the end and can be written back to a CSV for a re-run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and validate every row without calling the API")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every HTTP request and response")

	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snyk-ignore version %s\n", version)
		},
	}
}

// newLogger builds a console logger on w, at debug level when verbose is set
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
