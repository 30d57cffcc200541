package snyk

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secops-tools/snyk-ignore/pkg/models"
)

const aggregatedIssuesBody = `{
  "issues": [
    {"id": "SNYK-JS-LODASH-567746", "issueType": "vuln", "pkgName": "lodash",
     "fixInfo": {"isUpgradable": true, "isPinnable": false, "isPatchable": false, "isFixable": true}},
    {"id": "snyk:lic:pip:common-lib:Unknown", "issueType": "license", "pkgName": "common-lib",
     "fixInfo": {"isUpgradable": false, "isPinnable": false, "isPatchable": false, "isFixable": false}}
  ]
}`

func TestFixabilityChecker(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/org/test-org/project/test-proj/aggregated-issues", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aggregatedIssuesBody))
	}, &recordingSleeper{}, 3)

	checker := NewFixabilityChecker(c)
	ctx := context.Background()

	fixable, err := checker.IsFixable(ctx, models.IssueReference{OrgID: "test-org", ProjectID: "test-proj", IssueID: "SNYK-JS-LODASH-567746"})
	require.NoError(t, err)
	assert.True(t, fixable)

	fixable, err = checker.IsFixable(ctx, testRef)
	require.NoError(t, err)
	assert.False(t, fixable)

	_, err = checker.IsFixable(ctx, models.IssueReference{OrgID: "test-org", ProjectID: "test-proj", IssueID: "SNYK-MISSING"})
	assert.True(t, errors.Is(err, ErrIssueNotFound))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "listing should be fetched once per project")
}

func TestFixabilityChecker_LookupFailureNotCached(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(aggregatedIssuesBody))
	}, &recordingSleeper{}, 3)

	checker := NewFixabilityChecker(c)

	_, err := checker.IsFixable(context.Background(), testRef)
	var serr *SubmitError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)

	fixable, err := checker.IsFixable(context.Background(), testRef)
	require.NoError(t, err)
	assert.False(t, fixable)
}

func TestFixInfo_Fixable(t *testing.T) {
	assert.True(t, FixInfo{IsUpgradable: true}.Fixable())
	assert.True(t, FixInfo{IsPatchable: true}.Fixable())
	assert.False(t, FixInfo{IsPinnable: true}.Fixable())
	assert.False(t, FixInfo{}.Fixable())
}
