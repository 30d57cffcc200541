package steps

import (
	"context"
	"fmt"

	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// FixabilityCheck leaves issues alone when an upgrade or patch exists.
type FixabilityCheck struct {
	checker FixabilityChecker
}

// FixabilityChecker defines the subset of snyk.FixabilityChecker needed for this step
type FixabilityChecker interface {
	IsFixable(ctx context.Context, ref models.IssueReference) (bool, error)
}

// NewFixabilityCheck creates a new fixability check step
func NewFixabilityCheck(checker FixabilityChecker) *FixabilityCheck {
	return &FixabilityCheck{checker: checker}
}

func (s *FixabilityCheck) Name() string {
	return "fixability"
}

func (s *FixabilityCheck) Run(ctx *core.Context) error {
	if !ctx.Options.DisregardIfFixable {
		return nil
	}

	fixable, err := s.checker.IsFixable(ctx.Ctx, *ctx.Issue)
	if err != nil {
		return fmt.Errorf("fixability lookup failed: %w", err)
	}
	if fixable {
		return core.ErrFixable
	}

	return nil
}
