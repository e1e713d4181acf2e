package analyzer

import (
	"context"

	"github.com/Bahjat/page-report-tool/internal/model"
)

// ReportProvider defines the contract for any extraction engine.
type ReportProvider interface {
	// Extract never fails; failures are recorded in the report.
	Extract(ctx context.Context, targetURL string) *model.PageReport
	Probe(ctx context.Context, report *model.PageReport)
}

// InputResolver turns raw user input into an absolute URL.
type InputResolver interface {
	Resolve(input string) (string, error)
}
