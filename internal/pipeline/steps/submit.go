package steps

import (
	"context"

	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// Submitter sends an ignore request.
type Submitter struct {
	client Client
	dryRun bool
}

// Client defines the subset of snyk.Client needed for this step
type Client interface {
	Ignore(ctx context.Context, ref models.IssueReference, req models.IgnoreRequest) error
}

// NewSubmitter creates a new submit step
func NewSubmitter(client Client, dryRun bool) *Submitter {
	return &Submitter{client: client, dryRun: dryRun}
}

func (s *Submitter) Name() string {
	return "submit"
}

func (s *Submitter) Run(ctx *core.Context) error {
	if s.dryRun {
		ctx.Logger.Info("dry run, not submitting",
			zap.String("reason", ctx.Request.Reason),
			zap.String("reason_type", string(ctx.Request.ReasonType)),
			zap.String("path", ctx.Request.Path),
		)
		return nil
	}

	return s.client.Ignore(ctx.Ctx, *ctx.Issue, *ctx.Request)
}
