// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ykohei-dev/gh-contribs/internal/gateway"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Shows a GitHub user profile",
	Long: `Fetches a user profile with the GitHub REST API and prints it as JSON.
Without --user, the user the token belongs to is shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		defer func() { _ = logger.Sync() }()

		user, _ := cmd.Flags().GetString("user")
		token := githubToken()
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		profile, err := githubGateway.FetchUser(ctx, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch user profile: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal profile to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().StringP("user", "u", "", "GitHub user login (defaults to the authenticated user)")
}
