// Package cli implements the pagereport command line using Cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// ErrFetchFailed is returned after a report whose page could not be
// fetched has been written.
var ErrFetchFailed = errors.New("page could not be fetched")

const exitFetchFailed = 2

// NewRootCmd builds the command tree writing to the given streams.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pagereport",
		Short: "Audit a web page's metadata, headings and image alt text",
		Long: `pagereport fetches a single web page and reports its title, meta
description, H1-H3 headings and every image with its alt-text status.

Usage:
  pagereport report <url | reportanalysis@domain> [flags]`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newReportCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, ErrFetchFailed):
		os.Exit(exitFetchFailed)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
