package pageinsight

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// ParseResult holds everything extracted from a parsed page.
type ParseResult struct {
	HTMLVersion     string
	Title           string
	MetaDescription *string
	Headings        []string
	Images          []model.ImageEntry
}

var (
	titleSelector    = cascadia.MustCompile("title")
	metaDescSelector = cascadia.MustCompile(`meta[name="description"]`)
	imageSelector    = cascadia.MustCompile("img")

	// Headings are reported grouped by tag in this order, not in
	// document order across tags.
	headingSelectors = []cascadia.Selector{
		cascadia.MustCompile("h1"),
		cascadia.MustCompile("h2"),
		cascadia.MustCompile("h3"),
	}
)

// Parse builds a DOM from body with the lenient HTML5 parser and extracts
// metadata and the image inventory. Image sources are resolved against
// baseURL. Malformed markup never fails the parse; missing elements leave
// the corresponding fields empty.
func Parse(body io.Reader, baseURL *url.URL) (result *ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("parse html: %v", r)
		}
	}()

	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	result = &ParseResult{
		HTMLVersion: detectHTMLVersion(root),
		Title:       extractTitle(doc),
		Headings:    extractHeadings(doc),
		Images:      extractImages(doc, baseURL),
	}
	if desc, ok := extractMetaDescription(doc); ok {
		result.MetaDescription = &desc
	}

	return result, nil
}

func extractTitle(doc *goquery.Document) string {
	title := doc.FindMatcher(titleSelector).First()
	if title.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(title.Text())
}

// extractMetaDescription reports false when the element or its content
// attribute is missing. Present-but-empty content is returned as "".
func extractMetaDescription(doc *goquery.Document) (string, bool) {
	meta := doc.FindMatcher(metaDescSelector).First()
	if meta.Length() == 0 {
		return "", false
	}
	content, ok := meta.Attr("content")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(content), true
}

func extractHeadings(doc *goquery.Document) []string {
	headings := []string{}
	for _, sel := range headingSelectors {
		doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
			headings = append(headings, strings.TrimSpace(s.Text()))
		})
	}
	return headings
}

func extractImages(doc *goquery.Document, baseURL *url.URL) []model.ImageEntry {
	imgs := doc.FindMatcher(imageSelector)
	images := make([]model.ImageEntry, 0, imgs.Length())

	imgs.Each(func(i int, s *goquery.Selection) {
		var resolved string
		if src, ok := s.Attr("src"); ok {
			resolved = resolveSrc(src, baseURL)
		}
		alt, _ := s.Attr("alt")
		images = append(images, model.NewImageEntry(i+1, resolved, alt))
	})

	return images
}

// resolveSrc resolves src against baseURL. Relative paths, protocol-relative
// and absolute references all go through the same RFC 3986 resolution.
func resolveSrc(src string, baseURL *url.URL) string {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	if baseURL == nil {
		return ref.String()
	}
	return baseURL.ResolveReference(ref).String()
}

// detectHTMLVersion inspects the doctype node of a parsed document.
//
// HTML5 doctypes carry no public identifier; legacy ones do, e.g.
// "-//W3C//DTD HTML 4.01//EN".
// https://www.w3.org/QA/2002/04/valid-dtd-list.html
func detectHTMLVersion(root *html.Node) string {
	var doctype *html.Node
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			doctype = n
			break
		}
	}
	if doctype == nil {
		return "Unknown"
	}

	var public string
	for _, a := range doctype.Attr {
		if a.Key == "public" {
			public = strings.ToLower(a.Val)
		}
	}

	switch {
	case public == "":
		return "HTML5"
	case strings.Contains(public, "xhtml 1.1") || strings.Contains(public, "xhtml basic 1.1"):
		return "XHTML 1.1"
	case strings.Contains(public, "xhtml 1.0"):
		return "XHTML 1.0"
	case strings.Contains(public, "html 4.01"):
		return "HTML 4.01"
	default:
		return "Unknown"
	}
}
