// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-insights/repo-analyzer/internal/domain"
	"github.com/gh-insights/repo-analyzer/internal/usecase"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Computes a value-distribution histogram over a record collection",
	Long: `Reads a repository record collection (as produced by "analyze") from a file
or standard input, optionally applies an inclusive range filter on one
metric, and outputs distribution bins for the chosen metric in JSON format.

Available metrics: stars, forks, open_issues, inactivity_days, unique_views,
unique_clones.`,
	Run: func(cmd *cobra.Command, args []string) {
		metricName, _ := cmd.Flags().GetString("metric")
		filterByName, _ := cmd.Flags().GetString("filter-by")
		inputPath, _ := cmd.Flags().GetString("input")

		metric, err := domain.ParseMetric(metricName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --metric: %v\n", err)
			os.Exit(1)
		}

		records, err := readRecords(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read records: %v\n", err)
			os.Exit(1)
		}

		// The filter metric defaults to the plotted metric but may differ,
		// e.g. bin stars across only recently active repositories.
		if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
			filterBy := metric
			if filterByName != "" {
				filterBy, err = domain.ParseMetric(filterByName)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Invalid --filter-by: %v\n", err)
					os.Exit(1)
				}
			}
			minValue, maxValue := math.Inf(-1), math.Inf(1)
			if cmd.Flags().Changed("min") {
				minValue, _ = cmd.Flags().GetFloat64("min")
			}
			if cmd.Flags().Changed("max") {
				maxValue, _ = cmd.Flags().GetFloat64("max")
			}
			records = domain.FilterByRange(records, filterBy, minValue, maxValue)
		}

		bins, err := usecase.ComputeBins(records, metric)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to compute histogram: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(bins, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal bins to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

// readRecords decodes a record collection from a file, or from stdin when
// the path is "-".
func readRecords(path string) ([]domain.RepositoryRecord, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}
	var records []domain.RepositoryRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode record collection: %w", err)
	}
	return records, nil
}

func init() {
	rootCmd.AddCommand(histogramCmd)
	histogramCmd.Flags().StringP("metric", "m", "", "Metric to compute the distribution of (required)")
	histogramCmd.MarkFlagRequired("metric")
	histogramCmd.Flags().String("filter-by", "", "Metric to filter on before binning (defaults to --metric)")
	histogramCmd.Flags().Float64("min", 0, "Inclusive lower bound of the filter range")
	histogramCmd.Flags().Float64("max", 0, "Inclusive upper bound of the filter range")
	histogramCmd.Flags().StringP("input", "i", "-", `Record collection JSON file ("-" for stdin)`)
}
