package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/internal/pipeline/core"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

func newContext(values map[string]string, opts config.Options) (*core.Context, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	return &core.Context{
		Ctx:     context.Background(),
		Row:     models.Row{Number: 1, Values: values},
		Options: opts,
		Logger:  zap.New(obsCore),
	}, logs
}

func TestReasonResolver(t *testing.T) {
	ctx, logs := newContext(map[string]string{"NOTE": " legacy "}, config.Options{Text: "Base", TextColumn: "NOTE"})
	require.NoError(t, NewReasonResolver().Run(ctx))
	assert.Equal(t, "Base legacy", ctx.Reason)
	assert.Zero(t, logs.Len())
}

func TestReasonResolver_EmptyColumnWarns(t *testing.T) {
	ctx, logs := newContext(map[string]string{"NOTE": ""}, config.Options{Text: "Base", TextColumn: "NOTE"})
	require.NoError(t, NewReasonResolver().Run(ctx))
	assert.Equal(t, "Base", ctx.Reason)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestReasonResolver_NoReason(t *testing.T) {
	ctx, _ := newContext(map[string]string{"NOTE": ""}, config.Options{TextColumn: "NOTE"})
	err := NewReasonResolver().Run(ctx)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, models.MissingReason, verr.Kind)
}

func TestURLParser(t *testing.T) {
	ctx, _ := newContext(map[string]string{config.IssueURLColumn: "https://app.snyk.io/org/o/project/p#issue-SNYK-1"}, config.Options{})
	require.NoError(t, NewURLParser().Run(ctx))
	assert.Equal(t, &models.IssueReference{OrgID: "o", ProjectID: "p", IssueID: "SNYK-1"}, ctx.Issue)

	ctx, _ = newContext(map[string]string{config.IssueURLColumn: "https://app.snyk.io/org/o"}, config.Options{})
	var perr *models.ParseError
	assert.True(t, errors.As(NewURLParser().Run(ctx), &perr))
	assert.Nil(t, ctx.Issue)
}

type stubChecker struct {
	calls   int
	fixable bool
	err     error
}

func (s *stubChecker) IsFixable(ctx context.Context, ref models.IssueReference) (bool, error) {
	s.calls++
	return s.fixable, s.err
}

func TestFixabilityCheck(t *testing.T) {
	ref := &models.IssueReference{OrgID: "o", ProjectID: "p", IssueID: "i"}

	tests := []struct {
		name      string
		disregard bool
		checker   *stubChecker
		wantErr   error
		wantCalls int
	}{
		{"flag off skips lookup", false, &stubChecker{fixable: true}, nil, 0},
		{"fixable", true, &stubChecker{fixable: true}, core.ErrFixable, 1},
		{"not fixable", true, &stubChecker{}, nil, 1},
		{"lookup error", true, &stubChecker{err: errors.New("boom")}, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newContext(nil, config.Options{DisregardIfFixable: tt.disregard})
			ctx.Issue = ref

			err := NewFixabilityCheck(tt.checker).Run(ctx)
			switch {
			case tt.checker.err != nil:
				assert.ErrorIs(t, err, tt.checker.err)
				assert.NotErrorIs(t, err, core.ErrFixable)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, tt.checker.calls)
		})
	}
}

type stubClient struct {
	refs []models.IssueReference
	reqs []models.IgnoreRequest
}

func (s *stubClient) Ignore(ctx context.Context, ref models.IssueReference, req models.IgnoreRequest) error {
	s.refs = append(s.refs, ref)
	s.reqs = append(s.reqs, req)
	return nil
}

func TestBuildAndSubmit(t *testing.T) {
	ctx, _ := newContext(nil, config.Options{Type: "wont-fix", Expires: "2025-12-31", DisregardIfFixable: true})
	ctx.Issue = &models.IssueReference{OrgID: "o", ProjectID: "p", IssueID: "i"}
	ctx.Reason = "Accepted risk"

	require.NoError(t, NewRequestBuilder().Run(ctx))
	require.NotNil(t, ctx.Request)
	assert.Equal(t, models.DefaultIgnorePath, ctx.Request.Path)
	assert.True(t, ctx.Request.DisregardIfFixable)

	client := &stubClient{}
	require.NoError(t, NewSubmitter(client, false).Run(ctx))
	require.Len(t, client.reqs, 1)
	assert.Equal(t, *ctx.Issue, client.refs[0])
	assert.Equal(t, "Accepted risk", client.reqs[0].Reason)
}

func TestSubmitter_DryRun(t *testing.T) {
	ctx, logs := newContext(nil, config.Options{Type: "wont-fix"})
	ctx.Issue = &models.IssueReference{OrgID: "o", ProjectID: "p", IssueID: "i"}
	ctx.Request = &models.IgnoreRequest{Reason: "r", ReasonType: models.ReasonWontFix, Path: "*"}

	client := &stubClient{}
	require.NoError(t, NewSubmitter(client, true).Run(ctx))
	assert.Empty(t, client.reqs)
	assert.Equal(t, 1, logs.FilterMessage("dry run, not submitting").Len())
}
