package steps

import (
	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// ReasonResolver computes the ignore reason from --text and the text column.
type ReasonResolver struct{}

// NewReasonResolver creates a new reason resolution step
func NewReasonResolver() *ReasonResolver {
	return &ReasonResolver{}
}

func (s *ReasonResolver) Name() string {
	return "reason"
}

func (s *ReasonResolver) Run(ctx *core.Context) error {
	var columnText string
	if col := ctx.Options.TextColumn; col != "" {
		columnText = ctx.Row.Get(col)
		if columnText == "" && ctx.Options.Text != "" {
			ctx.Logger.Warn("ignore text column is empty, using --text only", zap.String("column", col))
		}
	}

	reason, err := models.ResolveReason(ctx.Options.Text, columnText)
	if err != nil {
		return err
	}

	ctx.Reason = reason
	return nil
}
