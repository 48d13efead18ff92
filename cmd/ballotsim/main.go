package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ballotsim",
		Short: "Election simulation over a social network",
		Long: `ballotsim draws a seeded electorate whose voters observe each other,
then compares first-past-the-post and ranked-choice voting with sincere
voters and with voters who weigh what their neighbors support.

The same voters, candidates and seed always produce the same report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.ballotsim/config.yaml)")
	rootCmd.PersistentFlags().String("format", "", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (same as --format json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colour in text output")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newGraphCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
