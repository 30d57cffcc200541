package models

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	orgMarker     = "/org/"
	projectMarker = "/project/"
	issueMarker   = "#issue-"
)

// IssueReference identifies a single Snyk finding
type IssueReference struct {
	OrgID     string `json:"org_id"`
	ProjectID string `json:"project_id"`
	IssueID   string `json:"issue_id"`
}

// String returns org/project/issue
func (r IssueReference) String() string {
	return fmt.Sprintf("%s/%s/%s", r.OrgID, r.ProjectID, r.IssueID)
}

// Valid reports whether all three identifiers are set
func (r IssueReference) Valid() bool {
	return r.OrgID != "" && r.ProjectID != "" && r.IssueID != ""
}

// URL renders the reference in the shape ParseIssueURL accepts
func (r IssueReference) URL(base string) string {
	return fmt.Sprintf("%s/org/%s/project/%s#issue-%s",
		strings.TrimRight(base, "/"), r.OrgID, r.ProjectID, url.PathEscape(r.IssueID))
}

// ParseErrorKind classifies URL parse failures
type ParseErrorKind string

const (
	MalformedURL ParseErrorKind = "malformed_url"
)

// ParseError is returned when an issue URL cannot be split into its identifiers
type ParseError struct {
	Kind    ParseErrorKind
	URL     string
	Segment string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed issue URL %q: missing or invalid %s segment", e.URL, e.Segment)
}

// ParseIssueURL extracts org, project and issue identifiers from a Snyk issue URL.
// For example:
//
//	https://app.snyk.io/org/my-org/project/1234abcd#issue-snyk%3Alic%3Apip%3Acommon-lib%3AUnknown
//
// yields my-org, 1234abcd and snyk:lic:pip:common-lib:Unknown.
func ParseIssueURL(raw string) (IssueReference, error) {
	raw = strings.TrimSpace(raw)

	org := segmentAfter(raw, orgMarker)
	if org == "" {
		return IssueReference{}, &ParseError{Kind: MalformedURL, URL: raw, Segment: "org"}
	}

	project := segmentAfter(raw, projectMarker)
	if project == "" {
		return IssueReference{}, &ParseError{Kind: MalformedURL, URL: raw, Segment: "project"}
	}

	idx := strings.Index(raw, issueMarker)
	if idx < 0 {
		return IssueReference{}, &ParseError{Kind: MalformedURL, URL: raw, Segment: "issue"}
	}
	issue, err := url.PathUnescape(raw[idx+len(issueMarker):])
	if err != nil || issue == "" {
		return IssueReference{}, &ParseError{Kind: MalformedURL, URL: raw, Segment: "issue"}
	}

	return IssueReference{OrgID: org, ProjectID: project, IssueID: issue}, nil
}

// segmentAfter returns the path segment following marker, stopping at '/', '#' or '?'
func segmentAfter(raw, marker string) string {
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return ""
	}
	rest := raw[idx+len(marker):]
	if end := strings.IndexAny(rest, "/#?"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
