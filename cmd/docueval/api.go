package main

import (
	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running docueval server via HTTP.

These commands require a running server (docueval serve).
Use --server to specify a custom server URL.

Examples:
  docueval api health                      # Check server health
  docueval api reports generate report.pdf # Generate a report from a PDF
  docueval api calls --limit 10            # Show recent model calls`,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Report generation and editing commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:9180", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))

	// Reports as subcommand group
	for _, ep := range endpoints.ReportCommands() {
		if cmd := ep.Command(getServerURL); cmd != nil {
			reportsCmd.AddCommand(cmd)
		}
	}

	// Schema and call history at top level
	apiCmd.AddCommand((&endpoints.ResolveSchemaEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListCallsEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(apiCmd)
}
