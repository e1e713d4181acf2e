package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/config"
	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

const testPage = `<!DOCTYPE html>
<html><head><title>CLI Test</title><meta name="description" content="A page."></head>
<body><h2>Second</h2><h1>First</h1><img src="/a.png" alt="A"><img src="/b.png"></body></html>`

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, testPage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReport_Text(t *testing.T) {
	srv := newPageServer(t)

	stdout, _, err := execute(t, "report", srv.URL, "--allow-private")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"CLI Test", "A page.", "200 OK", "HTML5", model.NoAltText, "2 total, 1 with alt text, 1 missing alt text"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "First") > strings.Index(stdout, "Second") {
		t.Errorf("h1 should be listed before h2:\n%s", stdout)
	}
}

func TestReport_JSON(t *testing.T) {
	srv := newPageServer(t)

	stdout, _, err := execute(t, "report", srv.URL, "--allow-private", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Title   string        `json:"title"`
		Summary model.Summary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if got.Title != "CLI Test" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Summary != (model.Summary{Total: 2, WithAlt: 1, MissingAlt: 1}) {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestReport_OutputFileAddsExtension(t *testing.T) {
	srv := newPageServer(t)
	base := filepath.Join(t.TempDir(), "report")

	stdout, stderr, err := execute(t, "report", srv.URL, "--allow-private", "--format", "pdf", "--output", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty when writing to a file", stdout)
	}
	if !strings.Contains(stderr, base+".pdf") {
		t.Errorf("stderr = %q, want written path", stderr)
	}

	data, err := os.ReadFile(base + ".pdf")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output file is not a PDF")
	}
}

func TestReport_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	stdout, _, err := execute(t, "report", url, "--allow-private")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if !strings.Contains(stdout, "Error fetching website (unreachable)") {
		t.Errorf("stdout = %q, want the fetch error", stdout)
	}
}

func TestReport_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bare domain", args: []string{"report", "example.com"}},
		{name: "alias disabled", args: []string{"report", "reportanalysis@example.com", "--no-alias"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)

			var appErr *errs.AppError
			if !errors.As(err, &appErr) || appErr.Kind != errs.InvalidInput {
				t.Fatalf("err = %v, want InvalidInput", err)
			}
		})
	}
}

func TestReport_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "report", "https://example.com", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("err = %v, want unknown format", err)
	}
}

func TestReport_RequiresOneArg(t *testing.T) {
	if _, _, err := execute(t, "report"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestReportFlags_Apply(t *testing.T) {
	cfg := config.Config{FetchTimeout: 10, AcceptAliasInput: true, BlockPrivateNetworks: true, LogLevel: "ERROR"}

	flags := reportFlags{timeout: 3, noAlias: true, allowPrivate: true, logLevel: "DEBUG"}
	if err := flags.apply(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.FetchTimeout != 3 || cfg.AcceptAliasInput || cfg.BlockPrivateNetworks || cfg.LogLevel != "DEBUG" {
		t.Errorf("cfg = %+v, want flags applied", cfg)
	}

	if err := (reportFlags{timeout: -1}).apply(&cfg); err == nil {
		t.Error("expected an error for a negative timeout")
	}
}
