package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahjat/page-report-tool/internal/analyzer"
	"github.com/Bahjat/page-report-tool/internal/app"
	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/config"
	"github.com/Bahjat/page-report-tool/internal/platform/logger"
	"github.com/Bahjat/page-report-tool/internal/render"
)

type reportFlags struct {
	format       string
	output       string
	timeout      time.Duration
	probeImages  bool
	noAlias      bool
	allowPrivate bool
	logLevel     string
}

func newReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report <input>",
		Short: "Fetch a page and print its report",
		Long: `Report fetches the page once and prints its metadata, headings and image
inventory. Input is an absolute URL (anything starting with "http") or the
shorthand reportanalysis@<domain>, which becomes https://<domain>.

Examples:
  pagereport report https://example.com
  pagereport report reportanalysis@example.com --format json
  pagereport report https://example.com --format pdf --output example.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format: text, json or pdf")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Page fetch timeout (default FETCH_TIMEOUT or 10s)")
	cmd.Flags().BoolVar(&flags.probeImages, "probe-images", false, "Fetch every image for status, size and dimensions")
	cmd.Flags().BoolVar(&flags.noAlias, "no-alias", false, "Reject the reportanalysis@<domain> input form")
	cmd.Flags().BoolVar(&flags.allowPrivate, "allow-private", false, "Allow fetching private and loopback addresses")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level for stderr: DEBUG, INFO, WARN, ERROR")

	return cmd
}

func (f reportFlags) apply(cfg *config.Config) error {
	if f.timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	if f.timeout > 0 {
		cfg.FetchTimeout = f.timeout
	}
	if f.noAlias {
		cfg.AcceptAliasInput = false
	}
	if f.allowPrivate {
		cfg.BlockPrivateNetworks = false
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return nil
}

func runReport(cmd *cobra.Command, input string, flags reportFlags) error {
	renderer, err := render.New(strings.ToLower(flags.format))
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := flags.apply(&cfg); err != nil {
		return err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	svc := app.NewService(cfg, log)

	report, err := svc.Report(cmd.Context(), strings.TrimSpace(input), analyzer.Options{ProbeImages: flags.probeImages})
	if err != nil {
		return err
	}

	out, err := renderer.Render(report)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	path, err := writeOutput(cmd, flags.output, renderer.Extension(), out)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n%s\n", path, summaryLine(report))
	}

	if report.Failed() {
		return ErrFetchFailed
	}
	return nil
}

// writeOutput writes to stdout when path is empty, otherwise to the file
// (adding ext when path has none) and returns the final path.
func writeOutput(cmd *cobra.Command, path, ext string, out []byte) (string, error) {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += ext
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func summaryLine(report *model.PageReport) string {
	if report.Failed() {
		return fmt.Sprintf("%s: %s", report.SourceURL, report.FetchError)
	}
	s := report.Summary()
	return fmt.Sprintf("%s: %d images, %d missing alt text", report.SourceURL, s.Total, s.MissingAlt)
}
