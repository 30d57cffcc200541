package steps

import (
	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// RequestBuilder validates the options and builds the ignore payload.
type RequestBuilder struct{}

// NewRequestBuilder creates a new request build step
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

func (s *RequestBuilder) Name() string {
	return "build"
}

func (s *RequestBuilder) Run(ctx *core.Context) error {
	req, err := models.BuildIgnoreRequest(*ctx.Issue, ctx.Options.BuildOptions(ctx.Reason))
	if err != nil {
		return err
	}

	ctx.Request = &req
	return nil
}
