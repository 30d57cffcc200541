package steps

import (
	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// URLParser extracts the issue reference from the row's ISSUE_URL.
type URLParser struct{}

// NewURLParser creates a new URL parsing step
func NewURLParser() *URLParser {
	return &URLParser{}
}

func (s *URLParser) Name() string {
	return "parse"
}

func (s *URLParser) Run(ctx *core.Context) error {
	ref, err := models.ParseIssueURL(ctx.Row.Get(config.IssueURLColumn))
	if err != nil {
		return err
	}

	ctx.Issue = &ref
	return nil
}
