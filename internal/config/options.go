package config

import (
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

// IssueURLColumn is the CSV column holding the Snyk issue URL
const IssueURLColumn = "ISSUE_URL"

// Options holds the per-run settings taken from the command line
type Options struct {
	File               string
	Type               string
	Text               string
	TextColumn         string
	DisregardIfFixable bool
	Expires            string
	IgnorePath         string
	FailedOut          string
	DryRun             bool
}

// BuildOptions returns the request builder inputs for a resolved reason
func (o Options) BuildOptions(reason string) models.BuildOptions {
	return models.BuildOptions{
		Reason:             reason,
		ReasonType:         o.Type,
		Expires:            o.Expires,
		Path:               o.IgnorePath,
		DisregardIfFixable: o.DisregardIfFixable,
	}
}
