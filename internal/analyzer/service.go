package analyzer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/requestid"
)

// Options tunes a single report request.
type Options struct {
	// ProbeImages fetches every resolved image for a preview.
	ProbeImages bool
}

// Service resolves input, runs a ReportProvider, and logs results.
type Service struct {
	resolver InputResolver
	provider ReportProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given resolver and provider.
func NewService(resolver InputResolver, provider ReportProvider, logger *slog.Logger) *Service {
	return &Service{resolver: resolver, provider: provider, logger: logger}
}

// Report resolves input and builds its page report.
//
// The only error returned is an InvalidInput AppError from the resolver,
// in which case no network call is made. Fetch failures come back as a
// report with FetchError set.
func (s *Service) Report(ctx context.Context, input string, opts Options) (*model.PageReport, error) {
	logger := s.logger.With("input", input, requestid.Attr(ctx))

	targetURL, err := s.resolver.Resolve(input)
	if err != nil {
		logger.Warn("input rejected", "error", err)
		return nil, err
	}
	logger = logger.With("url", targetURL)

	report := s.provider.Extract(ctx, targetURL)
	if report.Failed() {
		logger.Error("fetch failed",
			"failure", report.Failure.String(),
			"error", report.FetchError,
		)
		return report, nil
	}

	if opts.ProbeImages {
		s.provider.Probe(ctx, report)
	}

	summary := report.Summary()
	attrs := []any{
		"title", report.DisplayTitle(),
		"html_version", report.HTMLVersion,
		"headings", len(report.Headings),
		"images", summary.Total,
		"with_alt", summary.WithAlt,
		"missing_alt", summary.MissingAlt,
	}
	if report.HTTPStatus != nil {
		attrs = append(attrs, "target_status", *report.HTTPStatus)
		if *report.HTTPStatus >= http.StatusBadRequest {
			logger.Warn("target returned error status", attrs...)
			return report, nil
		}
	}
	logger.Info("report complete", attrs...)
	return report, nil
}
