package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// ErrorColumn is appended to the header of the failed-rows export
const ErrorColumn = "IGNORE_ERROR"

// WriteFailures writes the failed and skipped rows of table, in input order,
// with their original cells plus the error that stopped them.
func WriteFailures(w io.Writer, table *Table, result *models.RunResult) error {
	failed := result.FailedRows()

	cw := csv.NewWriter(w)
	header := append(append([]string{}, table.Header...), ErrorColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range table.Rows {
		f, ok := failed[row.Number]
		if !ok {
			continue
		}

		record := make([]string, len(table.Header), len(table.Header)+1)
		copy(record, row.Fields)
		record = append(record, f.Error)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Number, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFailuresFile writes the failed-rows export to path
func WriteFailuresFile(path string, table *Table, result *models.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteFailures(f, table, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// PrintResult prints the run summary and every failed or skipped row
func PrintResult(w io.Writer, result *models.RunResult) {
	fmt.Fprintln(w, "\n=== Snyk Ignore Result ===")
	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	if result.DryRun {
		fmt.Fprintln(w, "Mode: dry run (nothing submitted)")
	}
	fmt.Fprintf(w, "Processed %d rows (%d succeeded, %d failed, %d skipped, %d fixable) in %dms\n",
		result.Attempted, result.Succeeded, result.Failed, result.Skipped, result.Fixable, result.DurationMs)

	if result.Interrupted {
		fmt.Fprintln(w, "Interrupted: remaining rows were not processed")
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(w, "Failures:")
		for _, f := range result.Failures {
			fmt.Fprintf(w, "  - [%s] %s\n", f.Outcome, f)
		}
	}
}
