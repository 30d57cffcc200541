package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <issue-url>...",
		Short: "Show the org, project and issue IDs of Snyk issue URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, raw := range args {
				ref, err := models.ParseIssueURL(raw)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\terror: %v\n", raw, err)
					continue
				}
				fmt.Fprintf(out, "%s\torg=%s project=%s issue=%s\n", raw, ref.OrgID, ref.ProjectID, ref.IssueID)
			}

			if failed > 0 {
				return &ExitError{Code: ExitRowErrors, Message: fmt.Sprintf("%d of %d URLs could not be parsed", failed, len(args))}
			}
			return nil
		},
	}
}
