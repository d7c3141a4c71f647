// Package cli implements the command-line driving adapter. Commands
// load a document inventory, run duplicate detection through the core
// services, and print JSON results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docsweep/docsweep-cli/internal/core/ports/driving"
	"github.com/docsweep/docsweep-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// detectionService is injected by tests; when nil, commands build the
// real service from the loaded configuration.
var detectionService driving.DetectionService

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docsweep",
	Short: "Find duplicate and versioned documents in a crawled inventory",
	Long: `DocSweep analyses a document inventory for exact duplicates,
semantically similar documents, and filename-based version chains,
then recommends which files to keep, archive, or delete.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
