// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-insights/repo-analyzer/internal/gateway"
	"github.com/gh-insights/repo-analyzer/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetches repository metadata and traffic and outputs records as JSON",
	Long: `Fetches the full repository listing for a GitHub organization or user,
retrieves unique view and clone counts for each repository (last 14 days),
and outputs the merged record collection in JSON format.

A GITHUB_TOKEN environment variable is optional but recommended: the traffic
endpoints require push access, and without a token those metrics are zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		entityType, _ := cmd.Flags().GetString("type")
		entityName, _ := cmd.Flags().GetString("name")
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			logger.Println("GITHUB_TOKEN is not set; traffic metrics will be reported as 0.")
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, maxPages, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		analyzer := usecase.NewAnalyzer(githubGateway, concurrency, logger)

		records, err := analyzer.Analyze(ctx, entityType, entityName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to analyze repositories: %v\n", err)
			os.Exit(1)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal records to JSON: %v\n", err)
			os.Exit(1)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("type", "t", gateway.EntityOrg, `Entity type: "org" or "user"`)
	analyzeCmd.Flags().StringP("name", "n", "", "Target GitHub organization or user name (required)")
	analyzeCmd.MarkFlagRequired("name")
	analyzeCmd.Flags().Int("max-pages", gateway.DefaultMaxPages, "Maximum number of listing pages to request")
	analyzeCmd.Flags().Int("concurrency", usecase.DefaultTrafficConcurrency, "Concurrent traffic requests")
}
