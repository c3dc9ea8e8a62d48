package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
	actor     string
)

var rootCmd = &cobra.Command{
	Use:   "scorecardctl",
	Short: "CLI for the scorecard server",
	Long: `scorecardctl manages sustainability self-assessment cycles.

It talks to a scorecard server to create and review assessment records,
submit answers, and fetch computed indicator reports.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Scorecard server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Acting principal recorded in the audit trail (default: from SCORECARD_ACTOR env)")

	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(answersCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(healthCmd)
}

// resolvedActor returns the effective actor.
// Priority: --actor flag > SCORECARD_ACTOR env var > empty (server default).
func resolvedActor() string {
	if actor != "" {
		return actor
	}
	return os.Getenv("SCORECARD_ACTOR")
}
