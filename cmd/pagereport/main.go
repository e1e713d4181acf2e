package main

import "github.com/Bahjat/page-report-tool/internal/cli"

func main() {
	cli.Execute()
}
