package snyk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// Ignore submits an ignore for a single issue
func (c *Client) Ignore(ctx context.Context, ref models.IssueReference, req models.IgnoreRequest) error {
	endpoint := fmt.Sprintf("/org/%s/project/%s/ignore/%s",
		url.PathEscape(ref.OrgID), url.PathEscape(ref.ProjectID), url.PathEscape(ref.IssueID))

	if err := c.do(ctx, http.MethodPost, endpoint, req, nil); err != nil {
		return err
	}

	c.logger.Debug("ignore submitted",
		zap.String("org", ref.OrgID),
		zap.String("project", ref.ProjectID),
		zap.String("issue", ref.IssueID),
	)
	return nil
}
