// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-analyzer",
	Short: "A CLI tool to analyze GitHub repository metadata and traffic.",
	Long: `repo-analyzer fetches metadata and 14-day traffic statistics for every
repository owned by a GitHub organization or user, merges them into unified
records, and can compute value-distribution histograms over any numeric
metric for exploration.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
