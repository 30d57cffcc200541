package models

import "strings"

// Row is one data record of the input CSV
type Row struct {
	// Number is the 1-based data row number, header excluded
	Number int
	Fields []string
	Values map[string]string
}

// Get returns the trimmed value of column, or "" when absent
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// ResolveReason computes the ignore reason for a row from the --text value and
// the row's text-column value. When both are present they are joined as
// cliText + " " + columnText, with cliText kept as given and columnText trimmed.
// When only one is present it is used alone.
func ResolveReason(cliText, columnText string) (string, error) {
	columnText = strings.TrimSpace(columnText)
	hasCLI := strings.TrimSpace(cliText) != ""

	switch {
	case hasCLI && columnText != "":
		return cliText + " " + columnText, nil
	case hasCLI:
		return cliText, nil
	case columnText != "":
		return columnText, nil
	}

	return "", &ValidationError{
		Kind:    MissingReason,
		Field:   "reason",
		Message: "no --text given and the ignore text column is empty",
	}
}
