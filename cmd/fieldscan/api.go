package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldscan/fieldscan/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Fieldscan server via HTTP.

These commands require a running server (fieldscan serve).
Use --server to specify a custom server URL.

Examples:
  fieldscan api health              # Check server health
  fieldscan api upload photo.jpg    # Upload a document for extraction
  fieldscan api result <id>         # Fetch an extraction result`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.UploadDocumentEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.GetResultEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	rootCmd.AddCommand(apiCmd)
}
