package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// TextRenderer writes a plain-text report for terminals.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render writes metadata, headings and an image table with alt-text counts.
func (r *TextRenderer) Render(report *model.PageReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Report for %s\n", report.SourceURL)
	if report.Failed() {
		fmt.Fprintf(&buf, "Error fetching website (%s): %s\n", report.Failure, report.FetchError)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Status:           %s\n", statusLine(report))
	if report.HTMLVersion != "" {
		fmt.Fprintf(&buf, "HTML version:     %s\n", report.HTMLVersion)
	}
	fmt.Fprintf(&buf, "Title:            %s\n", report.DisplayTitle())
	fmt.Fprintf(&buf, "Meta description: %s\n", report.DisplayMetaDescription())

	buf.WriteString("\nHeadings (H1, H2, H3):\n")
	if len(report.Headings) == 0 {
		buf.WriteString("  (none)\n")
	}
	for _, h := range report.Headings {
		fmt.Fprintf(&buf, "  - %s\n", h)
	}

	s := report.Summary()
	fmt.Fprintf(&buf, "\nImages: %d total, %d with alt text, %d missing alt text\n", s.Total, s.WithAlt, s.MissingAlt)
	if s.Total == 0 {
		return buf.Bytes(), nil
	}

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tALT\tSOURCE\tPREVIEW")
	for _, img := range report.Images {
		src := img.ResolvedSrc
		if src == "" {
			src = "(no src)"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", img.Index, cell(img.DisplayAlt()), cell(src), cell(previewLine(img.Preview)))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("writing image table: %w", err)
	}

	return buf.Bytes(), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

func previewLine(p *model.Preview) string {
	switch {
	case p == nil:
		return "-"
	case p.Error != "":
		return "unavailable (" + p.Error + ")"
	case p.Width > 0:
		return fmt.Sprintf("%dx%d %s", p.Width, p.Height, p.ContentType)
	default:
		return p.ContentType
	}
}

// cell collapses whitespace runs so a value stays on one table row.
func cell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
