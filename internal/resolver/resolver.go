// Package resolver turns user input into a fetchable absolute URL.
//
// Validation is purely syntactic: no DNS lookups or reachability checks.
package resolver

import (
	"strings"

	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

const (
	// AliasPrefix marks the "reportanalysis@<domain>" input form.
	AliasPrefix = "reportanalysis@"

	absolutePrefix = "http"
)

const invalidInputMessage = "Unrecognized input. Use https://example.com or reportanalysis@example.com."

// Options controls which input forms are accepted.
type Options struct {
	// AllowAlias enables "reportanalysis@<domain>" → "https://<domain>".
	AllowAlias bool
}

// Resolver validates and normalizes raw input.
type Resolver struct {
	opts Options
}

// New returns a Resolver accepting the forms enabled in opts.
func New(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Default accepts both the absolute and the alias forms.
func Default() *Resolver {
	return New(Options{AllowAlias: true})
}

// Resolve returns the absolute URL for input, or an InvalidInput AppError.
//
// Input beginning with "http" is returned unchanged. The alias form keeps
// everything after the first "@" as the host part.
func (r *Resolver) Resolve(input string) (string, error) {
	if r.opts.AllowAlias {
		if domain, ok := strings.CutPrefix(input, AliasPrefix); ok {
			if domain == "" {
				return "", &errs.AppError{
					Kind:    errs.InvalidInput,
					Message: "Missing domain after " + AliasPrefix + ".",
				}
			}
			return "https://" + domain, nil
		}
	}

	if strings.HasPrefix(input, absolutePrefix) {
		return input, nil
	}

	return "", &errs.AppError{
		Kind:    errs.InvalidInput,
		Message: invalidInputMessage,
	}
}
