package models

import (
	"fmt"
	"strings"
	"time"
)

// ReasonType classifies why an issue is ignored
type ReasonType string

const (
	ReasonNotVulnerable   ReasonType = "not-vulnerable"
	ReasonWontFix         ReasonType = "wont-fix"
	ReasonTemporaryIgnore ReasonType = "temporary-ignore"
)

// DefaultIgnorePath scopes an ignore to every dependency path
const DefaultIgnorePath = "*"

// ReasonTypes lists the accepted classifications in display order
var ReasonTypes = []ReasonType{ReasonNotVulnerable, ReasonWontFix, ReasonTemporaryIgnore}

// Valid reports whether t is one of the accepted classifications
func (t ReasonType) Valid() bool {
	for _, rt := range ReasonTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// expiryLayouts are the ISO-8601 forms accepted for an ignore expiry
var expiryLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ValidationErrorKind classifies request validation failures
type ValidationErrorKind string

const (
	InvalidType      ValidationErrorKind = "invalid_type"
	InvalidExpiry    ValidationErrorKind = "invalid_expiry"
	MissingReason    ValidationErrorKind = "missing_reason"
	InvalidReference ValidationErrorKind = "invalid_reference"
)

// ValidationError is returned when an ignore request cannot be built
type ValidationError struct {
	Kind    ValidationErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IgnoreRequest is the body sent to the ignore endpoint
type IgnoreRequest struct {
	Reason             string     `json:"reason"`
	ReasonType         ReasonType `json:"reasonType"`
	Expires            *string    `json:"expires,omitempty"`
	Path               string     `json:"ignorePath"`
	DisregardIfFixable bool       `json:"disregardIfFixable"`
}

// BuildOptions carries the resolved per-row inputs for BuildIgnoreRequest
type BuildOptions struct {
	Reason             string
	ReasonType         string
	Expires            string
	Path               string
	DisregardIfFixable bool
}

// ValidateReasonType checks a raw classification string
func ValidateReasonType(raw string) error {
	if !ReasonType(raw).Valid() {
		names := make([]string, len(ReasonTypes))
		for i, rt := range ReasonTypes {
			names[i] = string(rt)
		}
		return &ValidationError{
			Kind:    InvalidType,
			Field:   "type",
			Message: fmt.Sprintf("%q is not one of %s", raw, strings.Join(names, ", ")),
		}
	}
	return nil
}

// ValidateExpiry checks that raw is an ISO-8601 date or timestamp
func ValidateExpiry(raw string) error {
	for _, layout := range expiryLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return nil
		}
	}
	return &ValidationError{
		Kind:    InvalidExpiry,
		Field:   "expires",
		Message: fmt.Sprintf("%q is not an ISO-8601 date or timestamp", raw),
	}
}

// BuildIgnoreRequest validates opts and returns a fully populated request.
// The expiry literal is passed through as given.
func BuildIgnoreRequest(ref IssueReference, opts BuildOptions) (IgnoreRequest, error) {
	if !ref.Valid() {
		return IgnoreRequest{}, &ValidationError{
			Kind:    InvalidReference,
			Field:   "issue",
			Message: fmt.Sprintf("incomplete issue reference %s", ref),
		}
	}
	if err := ValidateReasonType(opts.ReasonType); err != nil {
		return IgnoreRequest{}, err
	}
	if strings.TrimSpace(opts.Reason) == "" {
		return IgnoreRequest{}, &ValidationError{Kind: MissingReason, Field: "reason", Message: "required"}
	}

	var expires *string
	if opts.Expires != "" {
		if err := ValidateExpiry(opts.Expires); err != nil {
			return IgnoreRequest{}, err
		}
		e := opts.Expires
		expires = &e
	}

	path := opts.Path
	if path == "" {
		path = DefaultIgnorePath
	}

	return IgnoreRequest{
		Reason:             opts.Reason,
		ReasonType:         ReasonType(opts.ReasonType),
		Expires:            expires,
		Path:               path,
		DisregardIfFixable: opts.DisregardIfFixable,
	}, nil
}
