package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// PDFRenderer renders a report as an A4 PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out metadata, headings and the image table. Images themselves
// are not embedded.
func (r *PDFRenderer) Render(report *model.PageReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; page text is UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, "Page Report", "", "L", false)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+report.SourceURL), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if report.Failed() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(180, 0, 0)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Error fetching website (%s): %s", report.Failure, report.FetchError)), "", "L", false)
		return output(pdf)
	}

	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(38, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}
	field("Status", statusLine(report))
	if report.HTMLVersion != "" {
		field("HTML version", report.HTMLVersion)
	}
	field("Title", report.DisplayTitle())
	field("Meta description", report.DisplayMetaDescription())

	section(pdf, "Headings (H1, H2, H3)")
	pdf.SetFont("Helvetica", "", 10)
	if len(report.Headings) == 0 {
		pdf.MultiCell(0, 5, "(none)", "", "L", false)
	}
	for _, h := range report.Headings {
		pdf.MultiCell(0, 5, tr("- "+h), "", "L", false)
	}

	s := report.Summary()
	section(pdf, fmt.Sprintf("Images: %d total, %d with alt, %d missing alt", s.Total, s.WithAlt, s.MissingAlt))
	if s.Total > 0 {
		imageTable(pdf, tr, report.Images)
	}

	return output(pdf)
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, title, "", "L", false)
	pdf.Ln(1)
}

func imageTable(pdf *gofpdf.Fpdf, tr func(string) string, images []model.ImageEntry) {
	widths := []float64{10, 50, 130}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, head := range []string{"#", "Alt text", "Source"} {
		pdf.CellFormat(widths[i], 6, head, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, img := range images {
		src := img.ResolvedSrc
		if src == "" {
			src = "(no src)"
		}
		if !img.HasAlt() {
			pdf.SetTextColor(180, 0, 0)
		}
		pdf.CellFormat(widths[0], 5, fmt.Sprintf("%d", img.Index), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 5, truncate(tr(cell(img.DisplayAlt())), 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 5, truncate(tr(cell(src)), 90), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}
