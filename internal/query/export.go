package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Format is an export rendering.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat reads an export format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", unsupportedf("format", "unsupported export format %q", s)
	}
}

// MimeType returns the content type of the rendering.
func (f Format) MimeType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// ExportResult is the rendered payload of an export request.
type ExportResult struct {
	Content           string `json:"content"`
	MimeType          string `json:"mimeType"`
	SuggestedFilename string `json:"suggestedFilename"`
}

// ToCSV renders records as CSV with the given columns. No records yields the empty
// string, without a header. Cells containing a comma are wrapped in double quotes;
// embedded double quotes are written as is.
func ToCSV(records []Record, columns []string) string {
	if len(records) == 0 {
		return ""
	}
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, strings.Join(columns, ","))
	cells := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			cell := ""
			if v, ok := Get(r, col); ok {
				cell = Stringify(v)
			}
			if strings.Contains(cell, ",") {
				cell = `"` + cell + `"`
			}
			cells[i] = cell
		}
		rows = append(rows, strings.Join(cells, ","))
	}
	return strings.Join(rows, "\n")
}

// ToJSON renders records as an indented JSON array.
func ToJSON(records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return string(data), nil
}

// Columns returns the sorted union of top-level keys, for exports without declared
// columns.
func Columns(records []Record) []string {
	seen := map[string]bool{}
	for _, r := range records {
		for k := range r {
			seen[k] = true
		}
	}
	return sortedKeys(seen)
}

// Export renders records in format and names the file after name and now.
func Export(records []Record, format Format, columns []string, name string, now time.Time) (*ExportResult, error) {
	var (
		content string
		err     error
	)
	switch format {
	case FormatCSV:
		if len(columns) == 0 {
			columns = Columns(records)
		}
		content = ToCSV(records, columns)
	case FormatJSON:
		content, err = ToJSON(records)
		if err != nil {
			return nil, err
		}
	default:
		return nil, unsupportedf("format", "unsupported export format %q", format)
	}
	if name == "" {
		name = "export"
	}
	return &ExportResult{
		Content:           content,
		MimeType:          format.MimeType(),
		SuggestedFilename: fmt.Sprintf("%s-export-%s.%s", name, now.UTC().Format("20060102-150405"), format),
	}, nil
}
