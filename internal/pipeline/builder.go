package pipeline

import (
	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/internal/pipeline/steps"
)

// Builder constructs the per-row pipeline of steps.
type Builder struct {
	client     steps.Client
	fixability steps.FixabilityChecker
	dryRun     bool
}

// NewBuilder creates a new pipeline builder. fixability may be nil, in which
// case disregardIfFixable is left to the API to enforce.
func NewBuilder(client steps.Client, fixability steps.FixabilityChecker, dryRun bool) *Builder {
	return &Builder{
		client:     client,
		fixability: fixability,
		dryRun:     dryRun,
	}
}

// BuildDefault creates the standard pipeline
func (b *Builder) BuildDefault() []core.Step {
	pipe := []core.Step{
		steps.NewReasonResolver(),
		steps.NewURLParser(),
	}
	if b.fixability != nil {
		pipe = append(pipe, steps.NewFixabilityCheck(b.fixability))
	}
	return append(pipe,
		steps.NewRequestBuilder(),
		steps.NewSubmitter(b.client, b.dryRun),
	)
}
