package processor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/secops-tools/snyk-ignore/internal/config"
	"github.com/secops-tools/snyk-ignore/pkg/models"
)

const utf8BOM = "\ufeff"

// Table is a parsed CSV export
type Table struct {
	Header []string
	Rows   []models.Row
}

// LoadFile opens path and parses it with LoadTable
func LoadFile(path, textColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, config.ConfigError{Field: "file", Message: err.Error()}
	}
	defer func() { _ = f.Close() }()

	return LoadTable(f, textColumn)
}

// LoadTable reads a CSV with a header row. The ISSUE_URL column, and textColumn
// when set, must be present; a missing column is a fatal ConfigError.
func LoadTable(r io.Reader, textColumn string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, config.ConfigError{Field: "file", Message: "CSV is empty, a header row is required"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	required := []string{config.IssueURLColumn}
	if textColumn != "" {
		required = append(required, textColumn)
	}
	for _, col := range required {
		if !contains(header, col) {
			return nil, config.ConfigError{Field: "file", Message: fmt.Sprintf("CSV is missing required column %s", col)}
		}
	}

	table := &Table{Header: header}
	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", n, err)
		}

		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				values[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, models.Row{Number: n, Fields: record, Values: values})
	}

	return table, nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
