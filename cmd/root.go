// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "gh-contribs",
	Short: "A CLI tool to summarize a GitHub user's contributions per repository.",
	Long: `gh-contribs aggregates a user's contributions (commits, pull requests,
reviews, issues) per repository from the GitHub GraphQL API, walking
backward through time in one-year windows. Results include each
repository's language composition, topics and the user's role in it.`,
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

	// The API token always comes from the environment, never from a flag.
	_ = viper.BindEnv("github.token", "GITHUB_TOKEN")
}

// githubToken returns the token bound from the GITHUB_TOKEN environment variable.
func githubToken() string {
	return viper.GetString("github.token")
}

// newLogger builds the logger shared by all commands. Logs are dropped
// entirely unless --verbose is set, keeping stdout clean for output.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
