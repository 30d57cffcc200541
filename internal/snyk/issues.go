package snyk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// FixInfo describes the remediation available for an issue
type FixInfo struct {
	IsUpgradable       bool `json:"isUpgradable"`
	IsPinnable         bool `json:"isPinnable"`
	IsPatchable        bool `json:"isPatchable"`
	IsFixable          bool `json:"isFixable"`
	IsPartiallyFixable bool `json:"isPartiallyFixable"`
}

// Fixable reports whether an upgrade or patch is available
func (f FixInfo) Fixable() bool {
	return f.IsUpgradable || f.IsPatchable || f.IsFixable
}

// AggregatedIssue is one entry of a project's aggregated issue listing
type AggregatedIssue struct {
	ID        string  `json:"id"`
	IssueType string  `json:"issueType"`
	PkgName   string  `json:"pkgName"`
	FixInfo   FixInfo `json:"fixInfo"`
}

type aggregatedIssuesRequest struct {
	IncludeDescription       bool `json:"includeDescription"`
	IncludeIntroducedThrough bool `json:"includeIntroducedThrough"`
}

type aggregatedIssuesResponse struct {
	Issues []AggregatedIssue `json:"issues"`
}

// ListAggregatedIssues fetches every issue of a project with its fix info
func (c *Client) ListAggregatedIssues(ctx context.Context, orgID, projectID string) ([]AggregatedIssue, error) {
	endpoint := fmt.Sprintf("/org/%s/project/%s/aggregated-issues", url.PathEscape(orgID), url.PathEscape(projectID))

	var resp aggregatedIssuesResponse
	if err := c.do(ctx, http.MethodPost, endpoint, aggregatedIssuesRequest{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list aggregated issues: %w", err)
	}

	return resp.Issues, nil
}

// FixabilityChecker answers whether an issue has a fix, fetching each project's
// issue listing once per run
type FixabilityChecker struct {
	client   *Client
	projects map[string]map[string]FixInfo
}

// NewFixabilityChecker creates a checker backed by c
func NewFixabilityChecker(c *Client) *FixabilityChecker {
	return &FixabilityChecker{
		client:   c,
		projects: make(map[string]map[string]FixInfo),
	}
}

// IsFixable reports whether ref has an upgrade or patch available.
// An issue absent from its project's listing yields ErrIssueNotFound.
func (f *FixabilityChecker) IsFixable(ctx context.Context, ref models.IssueReference) (bool, error) {
	key := ref.OrgID + "/" + ref.ProjectID

	issues, ok := f.projects[key]
	if !ok {
		listed, err := f.client.ListAggregatedIssues(ctx, ref.OrgID, ref.ProjectID)
		if err != nil {
			return false, err
		}
		issues = make(map[string]FixInfo, len(listed))
		for _, issue := range listed {
			issues[issue.ID] = issue.FixInfo
		}
		f.projects[key] = issues
	}

	info, ok := issues[ref.IssueID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrIssueNotFound, ref)
	}
	return info.Fixable(), nil
}
