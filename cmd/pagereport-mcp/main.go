package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Bahjat/page-report-tool/internal/app"
	"github.com/Bahjat/page-report-tool/internal/mcptool"
	"github.com/Bahjat/page-report-tool/internal/platform/config"
	"github.com/Bahjat/page-report-tool/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	s := server.NewMCPServer(
		"pagereport",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	mcptool.Register(s, app.NewService(cfg, log))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
