// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ykohei-dev/gh-contribs/internal/gateway"
	"github.com/ykohei-dev/gh-contribs/internal/report"
	"github.com/ykohei-dev/gh-contribs/internal/usecase"
)

// inputDateLayout is the layout accepted by the --from and --to flags.
const inputDateLayout = "2006/01/02"

var contributionsCmd = &cobra.Command{
	Use:   "contributions",
	Short: "Aggregates a user's contributions per repository",
	Long: `Aggregates contributions (commits, pull requests, reviews, issues) for a
specified GitHub user per repository and renders the result as JSON, a
table, or an HTML chart. Without --from, pagination continues backward
until a one-year window reports no contributions at all.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		defer func() { _ = logger.Sync() }()

		// Get other flags.
		user, _ := cmd.Flags().GetString("user")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		format := viper.GetString("output.format")
		chartOut, _ := cmd.Flags().GetString("chart-out")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		token := githubToken()
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		var opts usecase.Options
		opts.Concurrency = concurrency
		if fromStr != "" {
			fromTime, err := time.Parse(inputDateLayout, fromStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --from date format. Please use YYYY/MM/DD. Error: %v\n", err)
				os.Exit(1)
			}
			opts.From = fromTime
		}
		if toStr != "" {
			toTime, err := time.Parse(inputDateLayout, toStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --to date format. Please use YYYY/MM/DD. Error: %v\n", err)
				os.Exit(1)
			}
			opts.To = toTime
		}
		if opts.Concurrency > 1 && opts.From.IsZero() {
			fmt.Fprintln(os.Stderr, "Error: --concurrency above 1 requires --from.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		repos, err := aggregator.FetchContributions(ctx, user, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate contributions: %v\n", err)
			os.Exit(1)
		}

		summary := report.Summarize(repos)
		logger.Info("run summary",
			zap.Int("repositories", summary.Repositories),
			zap.Int("total_stars", summary.TotalStars),
			zap.Int("total_commits", summary.TotalCommits),
			zap.Float64("median_stars", summary.MedianStars),
			zap.Float64("mean_commits", summary.MeanCommits),
		)

		switch format {
		case "table":
			err = report.WriteTable(os.Stdout, repos)
		case "chart":
			var f *os.File
			f, err = os.Create(chartOut)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create chart file: %v\n", err)
				os.Exit(1)
			}
			defer func() { _ = f.Close() }()
			if err = report.WriteChart(f, user, repos); err == nil {
				fmt.Fprintf(os.Stderr, "Wrote chart to %s\n", chartOut)
			}
		default:
			err = report.WriteJSON(os.Stdout, repos)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render results: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(contributionsCmd)
	contributionsCmd.Flags().StringP("user", "u", "", "Target GitHub user login (required)")
	_ = contributionsCmd.MarkFlagRequired("user")
	contributionsCmd.Flags().String("from", "", "Lower bound for contributions (YYYY/MM/DD)")
	contributionsCmd.Flags().String("to", "", "Upper bound for contributions (YYYY/MM/DD, defaults to now)")
	contributionsCmd.Flags().StringP("format", "f", "json", "Output format: json, table or chart")
	contributionsCmd.Flags().String("chart-out", "contributions.html", "Output file for the chart format")
	contributionsCmd.Flags().Int("concurrency", 1, "Parallel window fetches (requires --from)")
	_ = viper.BindPFlag("output.format", contributionsCmd.Flags().Lookup("format"))
}
