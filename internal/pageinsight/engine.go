package pageinsight

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

const cancelledMessage = "cancelled"

// imageProber defines how the engine enriches images with previews.
type imageProber interface {
	Probe(ctx context.Context, images []model.ImageEntry)
}

// Engine orchestrates page fetching, HTML parsing, and image probing.
type Engine struct {
	fetcher Fetcher
	prober  imageProber
}

// NewEngine returns an Engine backed by the given Fetcher and image prober.
// A nil prober disables previews.
func NewEngine(fetcher Fetcher, prober imageProber) *Engine {
	return &Engine{
		fetcher: fetcher,
		prober:  prober,
	}
}

// Extract fetches targetURL once, parses it, and assembles a report.
//
// Extract never returns an error: every fetch or parse failure is recorded
// in the report's FetchError, with the data fields left empty. A cancelled
// ctx yields the Cancelled failure kind.
func (e *Engine) Extract(ctx context.Context, targetURL string) *model.PageReport {
	body, statusCode, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return failedReport(ctx, targetURL, err, errs.Unreachable)
	}
	defer func() { _ = body.Close() }()

	baseURL, err := url.Parse(targetURL)
	if err != nil {
		return model.NewFailedReport(targetURL, errs.ParsingFailed, err.Error())
	}

	parsed, err := Parse(body, baseURL)
	if err != nil {
		// The body is read inside the parser, so a timeout or reset that
		// surfaces mid-body is still classified as such.
		return failedReport(ctx, targetURL, err, errs.ParsingFailed)
	}

	return &model.PageReport{
		SourceURL:       targetURL,
		HTTPStatus:      &statusCode,
		HTMLVersion:     parsed.HTMLVersion,
		Title:           parsed.Title,
		MetaDescription: parsed.MetaDescription,
		Headings:        parsed.Headings,
		Images:          parsed.Images,
	}
}

// Probe attaches best-effort previews to the report's images. Failed
// reports and engines without a prober are left untouched.
func (e *Engine) Probe(ctx context.Context, report *model.PageReport) {
	if e.prober == nil || report.Failed() || len(report.Images) == 0 {
		return
	}
	e.prober.Probe(ctx, report.Images)
}

func failedReport(ctx context.Context, targetURL string, err error, fallback errs.Kind) *model.PageReport {
	kind := classifyFailure(ctx, err, fallback)
	message := err.Error()
	if kind == errs.Cancelled {
		message = cancelledMessage
	}
	return model.NewFailedReport(targetURL, kind, message)
}

func classifyFailure(ctx context.Context, err error, fallback errs.Kind) errs.Kind {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return errs.Cancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.Timeout
	}
	var opErr *net.OpError
	if errors.Is(err, ErrBlockedAddress) || errors.As(err, &opErr) {
		return errs.Unreachable
	}
	return fallback
}
