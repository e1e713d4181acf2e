// Package mcptool exposes the page report as an MCP tool.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Bahjat/page-report-tool/internal/analyzer"
	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

// ToolName is the name clients call.
const ToolName = "page_report"

// Reporter produces page reports; *analyzer.Service satisfies it.
type Reporter interface {
	Report(ctx context.Context, input string, opts analyzer.Options) (*model.PageReport, error)
}

// Register adds the page_report tool to s.
func Register(s *server.MCPServer, reporter Reporter) {
	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Fetch a single web page and report its title, meta description, H1-H3 headings and every image with its alt-text status. Returns the report as JSON."),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Absolute URL (starting with http) or reportanalysis@<domain>, which is fetched as https://<domain>"),
		),
		mcp.WithBoolean("probe_images",
			mcp.Description("Also fetch each image to record status, content type, size and dimensions"),
		),
	)

	s.AddTool(tool, handlePageReport(reporter))
}

func handlePageReport(reporter Reporter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := request.RequireString("input")
		if err != nil || strings.TrimSpace(input) == "" {
			return mcp.NewToolResultError("input is required"), nil
		}

		report, err := reporter.Report(ctx, strings.TrimSpace(input), analyzer.Options{
			ProbeImages: request.GetBool("probe_images", false),
		})
		if err != nil {
			var appErr *errs.AppError
			if errors.As(err, &appErr) {
				return mcp.NewToolResultError(appErr.Message), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		if report.Failed() {
			return mcp.NewToolResultError(fmt.Sprintf("Error fetching website (%s): %s", report.Failure, report.FetchError)), nil
		}

		body, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
