// Package main provides the eqcoach CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eqcoach",
		Short: "Emotional intelligence self-assessment",
		Long: `eqcoach walks you through a 20-question emotional intelligence
self-assessment, scores it across five domains, and suggests where to focus.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: search for .eqcoach/config.yaml)")

	rootCmd.AddCommand(
		newQuestionsCmd(),
		newTakeCmd(),
		newScoreCmd(),
		newLastCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}
