// Package render turns a page report into CLI output formats.
package render

import (
	"fmt"
	"net/http"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// UnknownStatus describes status codes outside the lookup table.
const UnknownStatus = "Unknown or uncommon status code"

// Renderer converts a report into a final output format.
type Renderer interface {
	Render(report *model.PageReport) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".txt", ".pdf").
	Extension() string
}

// New returns the renderer for format: "text", "json" or "pdf".
func New(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or pdf)", format)
	}
}

// StatusDescription maps an HTTP status code to a human-readable phrase.
func StatusDescription(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return UnknownStatus
}

// statusLine renders "200 OK" or "unavailable" when no response arrived.
func statusLine(report *model.PageReport) string {
	if report.HTTPStatus == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%d %s", *report.HTTPStatus, StatusDescription(*report.HTTPStatus))
}
