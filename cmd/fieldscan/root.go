package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldscan/fieldscan/internal/api"
	"github.com/fieldscan/fieldscan/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fieldscan",
	Short: "Structured data extraction from photographed maritime cargo documents",
	Long: `Fieldscan turns photographed field documents from barge and tanker
operations into structured data using vision-capable language models.

Uploaded images are run through schema-constrained extraction:
  - Barge, port, and voyage identification
  - Per-tank gauging rows (ullage, temperature, API gravity, barrels)
  - Arrival and departure timestamps
  - Product totals

Results are validated against a closed-world schema before they are stored.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.fieldscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "fieldscan home directory (default: ~/.fieldscan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
