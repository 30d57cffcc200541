package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome is the terminal state of a processed row
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFixable   Outcome = "fixable"
)

// RowFailure records a failed or skipped row with enough context to re-run it
type RowFailure struct {
	Row        int             `json:"row"`
	IssueURL   string          `json:"issue_url"`
	Issue      *IssueReference `json:"issue,omitempty"`
	Outcome    Outcome         `json:"outcome"`
	StatusCode int             `json:"status_code,omitempty"`
	Error      string          `json:"error"`
}

func (f RowFailure) String() string {
	if f.Issue != nil {
		return fmt.Sprintf("row %d (%s): %s", f.Row, f.Issue, f.Error)
	}
	return fmt.Sprintf("row %d (%s): %s", f.Row, f.IssueURL, f.Error)
}

// RunResult contains statistics from a bulk ignore run
type RunResult struct {
	RunID       string       `json:"run_id"`
	Attempted   int          `json:"attempted"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Fixable     int          `json:"fixable"`
	Failures    []RowFailure `json:"failures,omitempty"`
	DryRun      bool         `json:"dry_run,omitempty"`
	Interrupted bool         `json:"interrupted,omitempty"`
	DurationMs  int          `json:"duration_ms"`
}

// NewRunResult starts an empty result with a fresh run ID
func NewRunResult() *RunResult {
	return &RunResult{RunID: uuid.NewString()}
}

// Record counts a row outcome; failed and skipped rows are kept in Failures
func (r *RunResult) Record(outcome Outcome, failure RowFailure) {
	r.Attempted++
	switch outcome {
	case OutcomeSucceeded:
		r.Succeeded++
	case OutcomeFixable:
		r.Fixable++
	case OutcomeSkipped:
		r.Skipped++
		failure.Outcome = OutcomeSkipped
		r.Failures = append(r.Failures, failure)
	default:
		r.Failed++
		failure.Outcome = OutcomeFailed
		r.Failures = append(r.Failures, failure)
	}
}

// OK reports whether every attempted row was handled without failure or skip
func (r *RunResult) OK() bool {
	return r.Failed == 0 && r.Skipped == 0 && !r.Interrupted
}

// FailedRows returns the row numbers recorded in Failures
func (r *RunResult) FailedRows() map[int]RowFailure {
	rows := make(map[int]RowFailure, len(r.Failures))
	for _, f := range r.Failures {
		rows[f.Row] = f
	}
	return rows
}
