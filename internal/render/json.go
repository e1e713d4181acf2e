package render

import (
	"encoding/json"
	"fmt"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// JSONRenderer produces the indented JSON form of a report.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the report, sentinels and summary included.
func (r *JSONRenderer) Render(report *model.PageReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
