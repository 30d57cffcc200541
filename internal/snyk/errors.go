package snyk

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed API call
type ErrorKind string

const (
	APIError          ErrorKind = "api_error"
	TransportError    ErrorKind = "transport_error"
	RateLimitExceeded ErrorKind = "rate_limit_exceeded"
)

// ErrIssueNotFound is returned when a project's issue listing lacks the requested issue
var ErrIssueNotFound = errors.New("issue not found in project")

// SubmitError is returned for any call that did not end in a 2xx response
type SubmitError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *SubmitError) Error() string {
	switch e.Kind {
	case APIError:
		if e.Err != nil {
			return fmt.Sprintf("snyk API returned status %d with unreadable body: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("snyk API returned status %d: %s", e.StatusCode, e.Body)
	case RateLimitExceeded:
		return fmt.Sprintf("snyk API still rate limited (status %d) after %d attempts", e.StatusCode, e.Attempts)
	default:
		return fmt.Sprintf("request to snyk API failed: %v", e.Err)
	}
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
