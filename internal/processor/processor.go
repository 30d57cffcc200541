package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/internal/snyk"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// Processor runs every CSV row through the pipeline, one at a time
type Processor struct {
	steps  []core.Step
	opts   config.Options
	logger *zap.Logger
}

// NewProcessor creates a new row processor
func NewProcessor(opts config.Options, steps []core.Step, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{steps: steps, opts: opts, logger: logger}
}

// Run processes rows in order. A row's failure never stops the run; only
// cancellation of ctx does, in which case the result is marked Interrupted and
// the row in flight is not counted.
func (p *Processor) Run(ctx context.Context, rows []models.Row) *models.RunResult {
	start := time.Now()
	result := models.NewRunResult()
	result.DryRun = p.opts.DryRun
	logger := p.logger.With(zap.String("run_id", result.RunID))

	logger.Info("starting run", zap.Int("rows", len(rows)), zap.Bool("dry_run", p.opts.DryRun))

	for _, row := range rows {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		rowLogger := logger.With(zap.Int("row", row.Number))
		pCtx := &core.Context{
			Ctx:     ctx,
			Row:     row,
			Options: p.opts,
			Logger:  rowLogger,
		}

		err := p.runRow(pCtx)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			result.Interrupted = true
			break
		}

		outcome, failure := classify(pCtx, err)
		result.Record(outcome, failure)
		logOutcome(rowLogger, pCtx, outcome, err)
	}

	if result.Interrupted {
		logger.Warn("run interrupted", zap.Int("attempted", result.Attempted))
	}

	result.DurationMs = int(time.Since(start).Milliseconds())
	return result
}

func (p *Processor) runRow(pCtx *core.Context) error {
	for _, step := range p.steps {
		if err := step.Run(pCtx); err != nil {
			if errors.Is(err, core.ErrFixable) {
				return err
			}
			return fmt.Errorf("step %s failed: %w", step.Name(), err)
		}
	}
	return nil
}

func classify(pCtx *core.Context, err error) (models.Outcome, models.RowFailure) {
	failure := models.RowFailure{
		Row:      pCtx.Row.Number,
		IssueURL: pCtx.Row.Get(config.IssueURLColumn),
		Issue:    pCtx.Issue,
	}

	if err == nil {
		return models.OutcomeSucceeded, failure
	}
	if errors.Is(err, core.ErrFixable) {
		return models.OutcomeFixable, failure
	}

	failure.Error = err.Error()

	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		return models.OutcomeSkipped, failure
	}

	var submitErr *snyk.SubmitError
	if errors.As(err, &submitErr) {
		failure.StatusCode = submitErr.StatusCode
	}
	return models.OutcomeFailed, failure
}

func logOutcome(logger *zap.Logger, pCtx *core.Context, outcome models.Outcome, err error) {
	fields := []zap.Field{zap.String("outcome", string(outcome))}
	if ref := pCtx.Issue; ref != nil {
		fields = append(fields,
			zap.String("org", ref.OrgID),
			zap.String("project", ref.ProjectID),
			zap.String("issue", ref.IssueID),
		)
	}

	switch outcome {
	case models.OutcomeSucceeded:
		logger.Info("issue ignored", fields...)
	case models.OutcomeFixable:
		logger.Info("issue has an available fix, left unignored", fields...)
	case models.OutcomeSkipped:
		logger.Warn("skipping row", append(fields, zap.Error(err))...)
	default:
		logger.Error("failed to ignore issue", append(fields, zap.Error(err))...)
	}
}
