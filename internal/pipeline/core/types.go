package core

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// ErrFixable indicates the issue has an upgrade or patch available and was left
// alone. It is not a failure.
var ErrFixable = errors.New("issue has an available fix")

// Context carries one row's state through the pipeline steps.
type Context struct {
	// Base Inputs
	Ctx     context.Context
	Row     models.Row
	Options config.Options
	Logger  *zap.Logger

	// Filled in by the steps, in order
	Reason  string
	Issue   *models.IssueReference
	Request *models.IgnoreRequest
}

// Step defines a single unit of work in the pipeline.
type Step interface {
	// Name returns the identifier for this step (used in logs)
	Name() string
	// Run executes the step logic.
	// Returning ErrFixable gracefully stops execution.
	// Any other error stops execution and is classified by the processor.
	Run(ctx *Context) error
}
