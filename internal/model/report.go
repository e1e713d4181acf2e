package model

import (
	"encoding/json"
	"strings"

	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

// Sentinels substituted for absent data when a report is presented.
const (
	NoTitle           = "No title found"
	NoMetaDescription = "No meta description"
	NoAltText         = "No Alt Text"
)

// altPlaceholder is filler alt text that carries no description.
const altPlaceholder = "..."

// PageReport holds everything extracted from a single fetched page.
//
// Absent metadata is kept as zero values here; sentinel strings only appear
// in the presentation methods and the JSON encoding.
type PageReport struct {
	SourceURL string
	// HTTPStatus is nil when no response was received.
	HTTPStatus  *int
	HTMLVersion string
	// Title is empty when the page has no usable <title>.
	Title string
	// MetaDescription is nil when the element or its content attribute is missing.
	MetaDescription *string
	Headings        []string
	Images          []ImageEntry

	// FetchError is set only when fetching or parsing failed; all other
	// data fields are then empty.
	FetchError string
	Failure    errs.Kind
}

// ImageEntry is one <img> element in document order.
type ImageEntry struct {
	Index int
	// ResolvedSrc is empty when the element has no usable src.
	ResolvedSrc string
	// AltText is the normalized alt text, empty when the image has none.
	AltText string
	Preview *Preview
}

// Preview is the outcome of the best-effort image fetch.
type Preview struct {
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Summary counts images by alt-text status.
type Summary struct {
	Total      int `json:"total"`
	WithAlt    int `json:"with_alt"`
	MissingAlt int `json:"missing_alt"`
}

// NormalizeAlt trims raw alt text and drops the "..." placeholder.
func NormalizeAlt(raw string) string {
	alt := strings.TrimSpace(raw)
	if alt == altPlaceholder {
		return ""
	}
	return alt
}

// NewImageEntry builds an entry with its alt text normalized.
func NewImageEntry(index int, resolvedSrc, rawAlt string) ImageEntry {
	return ImageEntry{
		Index:       index,
		ResolvedSrc: resolvedSrc,
		AltText:     NormalizeAlt(rawAlt),
	}
}

// HasAlt reports whether the image carries meaningful alt text. Entries
// built without NewImageEntry are classified by the same NormalizeAlt rule.
func (e ImageEntry) HasAlt() bool {
	alt := NormalizeAlt(e.AltText)
	return alt != "" && alt != NoAltText
}

// DisplayAlt returns the alt text or the NoAltText sentinel.
func (e ImageEntry) DisplayAlt() string {
	if !e.HasAlt() {
		return NoAltText
	}
	return e.AltText
}

// NewFailedReport returns a report carrying only the failure.
func NewFailedReport(sourceURL string, kind errs.Kind, message string) *PageReport {
	return &PageReport{
		SourceURL:  sourceURL,
		FetchError: message,
		Failure:    kind,
	}
}

// Failed reports whether the fetch or parse step failed.
func (r *PageReport) Failed() bool {
	return r.FetchError != ""
}

// DisplayTitle returns the title or the NoTitle sentinel.
func (r *PageReport) DisplayTitle() string {
	if strings.TrimSpace(r.Title) == "" {
		return NoTitle
	}
	return r.Title
}

// DisplayMetaDescription returns the description or the NoMetaDescription sentinel.
func (r *PageReport) DisplayMetaDescription() string {
	if r.MetaDescription == nil {
		return NoMetaDescription
	}
	return *r.MetaDescription
}

// Summary counts images with and without alt text.
func (r *PageReport) Summary() Summary {
	s := Summary{Total: len(r.Images)}
	for _, img := range r.Images {
		if img.HasAlt() {
			s.WithAlt++
		}
	}
	s.MissingAlt = s.Total - s.WithAlt
	return s
}

type imageJSON struct {
	Index       int      `json:"index"`
	ResolvedSrc string   `json:"resolved_src,omitempty"`
	HasAlt      bool     `json:"has_alt"`
	AltText     string   `json:"alt_text"`
	Preview     *Preview `json:"preview,omitempty"`
}

// MarshalJSON encodes the entry with the derived has_alt flag and sentinel alt text.
func (e ImageEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageJSON{
		Index:       e.Index,
		ResolvedSrc: e.ResolvedSrc,
		HasAlt:      e.HasAlt(),
		AltText:     e.DisplayAlt(),
		Preview:     e.Preview,
	})
}

type reportJSON struct {
	SourceURL       string       `json:"source_url"`
	HTTPStatus      *int         `json:"http_status,omitempty"`
	HTMLVersion     string       `json:"html_version,omitempty"`
	Title           *string      `json:"title,omitempty"`
	MetaDescription *string      `json:"meta_description,omitempty"`
	Headings        []string     `json:"headings"`
	Images          []ImageEntry `json:"images"`
	Summary         Summary      `json:"summary"`
	FetchError      string       `json:"fetch_error,omitempty"`
	Failure         string       `json:"failure,omitempty"`
}

// MarshalJSON encodes the presentation form of the report: sentinels in
// place of absent metadata, and either the data fields or the failure.
func (r *PageReport) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		SourceURL: r.SourceURL,
		Headings:  []string{},
		Images:    []ImageEntry{},
	}

	if r.Failed() {
		out.FetchError = r.FetchError
		out.Failure = r.Failure.String()
		return json.Marshal(out)
	}

	title := r.DisplayTitle()
	desc := r.DisplayMetaDescription()
	out.HTTPStatus = r.HTTPStatus
	out.HTMLVersion = r.HTMLVersion
	out.Title = &title
	out.MetaDescription = &desc
	if r.Headings != nil {
		out.Headings = r.Headings
	}
	if r.Images != nil {
		out.Images = r.Images
	}
	out.Summary = r.Summary()
	return json.Marshal(out)
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
