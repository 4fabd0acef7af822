// Package cli wires the loader into a small cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "txnpipe",
	Short: "Batch transaction loader with data-quality checks",
	Long: `txnpipe reads a transactions file, runs each row through a fixed set
of data-quality checks, writes passing rows into the transactions and
customers tables, and routes failing rows to the ingestion error log.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml")
}
