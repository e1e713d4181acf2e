// Package app assembles the report service from configuration.
package app

import (
	"log/slog"

	"github.com/Bahjat/page-report-tool/internal/analyzer"
	"github.com/Bahjat/page-report-tool/internal/pageinsight"
	"github.com/Bahjat/page-report-tool/internal/platform/config"
	"github.com/Bahjat/page-report-tool/internal/resolver"
)

// NewService wires the resolver, page fetcher, image prober and engine.
func NewService(cfg config.Config, logger *slog.Logger) *analyzer.Service {
	fetcher := pageinsight.NewHTTPClient(pageinsight.ClientOptions{
		Timeout:              cfg.FetchTimeout,
		BlockPrivateNetworks: cfg.BlockPrivateNetworks,
	})
	prober := pageinsight.NewImageProber(pageinsight.ProberOptions{
		Timeout:              cfg.ImageProbeTimeout,
		Concurrency:          cfg.ImageProbeConcurrency,
		BlockPrivateNetworks: cfg.BlockPrivateNetworks,
	})
	engine := pageinsight.NewEngine(fetcher, prober)

	return analyzer.NewService(resolver.New(resolver.Options{AllowAlias: cfg.AcceptAliasInput}), engine, logger)
}
