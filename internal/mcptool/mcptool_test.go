package mcptool

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Bahjat/page-report-tool/internal/analyzer"
	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

type mockReporter struct {
	report *model.PageReport
	err    error

	gotInput string
	gotOpts  analyzer.Options
}

func (m *mockReporter) Report(_ context.Context, input string, opts analyzer.Options) (*model.PageReport, error) {
	m.gotInput = input
	m.gotOpts = opts
	return m.report, m.err
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = ToolName
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Content[0] is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestHandlePageReport(t *testing.T) {
	status := 200
	okReport := &model.PageReport{
		SourceURL:  "https://example.com",
		HTTPStatus: &status,
		Title:      "Example",
		Headings:   []string{"Hello"},
		Images:     []model.ImageEntry{model.NewImageEntry(1, "https://example.com/a.png", "")},
	}

	tests := []struct {
		name      string
		args      map[string]any
		reporter  *mockReporter
		wantError bool
		wantText  []string
	}{
		{
			name:     "success",
			args:     map[string]any{"input": "  https://example.com ", "probe_images": true},
			reporter: &mockReporter{report: okReport},
			wantText: []string{`"title": "Example"`, `"alt_text": "No Alt Text"`, `"missing_alt": 1`},
		},
		{
			name:      "missing input",
			args:      map[string]any{},
			reporter:  &mockReporter{},
			wantError: true,
			wantText:  []string{"input is required"},
		},
		{
			name: "invalid input",
			args: map[string]any{"input": "example.com"},
			reporter: &mockReporter{err: &errs.AppError{
				Kind:    errs.InvalidInput,
				Message: "Unrecognized input.",
			}},
			wantError: true,
			wantText:  []string{"Unrecognized input."},
		},
		{
			name:      "fetch failure",
			args:      map[string]any{"input": "https://down.example.com"},
			reporter:  &mockReporter{report: model.NewFailedReport("https://down.example.com", errs.Timeout, "context deadline exceeded")},
			wantError: true,
			wantText:  []string{"Error fetching website (timeout): context deadline exceeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := handlePageReport(tt.reporter)(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if res.IsError != tt.wantError {
				t.Errorf("IsError = %v, want %v", res.IsError, tt.wantError)
			}
			text := resultText(t, res)
			for _, want := range tt.wantText {
				if !strings.Contains(text, want) {
					t.Errorf("result missing %q:\n%s", want, text)
				}
			}
		})
	}
}

func TestHandlePageReport_PassesOptions(t *testing.T) {
	status := 200
	reporter := &mockReporter{report: &model.PageReport{SourceURL: "https://example.com", HTTPStatus: &status}}

	_, err := handlePageReport(reporter)(context.Background(), callRequest(map[string]any{
		"input":        " reportanalysis@example.com ",
		"probe_images": true,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if reporter.gotInput != "reportanalysis@example.com" {
		t.Errorf("input = %q, want trimmed", reporter.gotInput)
	}
	if !reporter.gotOpts.ProbeImages {
		t.Error("ProbeImages = false, want true")
	}
}

func TestRegister(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))
	Register(s, &mockReporter{})

	if tool := s.GetTool(ToolName); tool == nil {
		t.Fatalf("tool %q not registered", ToolName)
	}
}
